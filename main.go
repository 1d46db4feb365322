package main

import "github.com/KaramelBytes/combotally-cli/cmd"

func main() {
	cmd.Execute()
}
