package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/combotally-cli/internal/profile"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	inHeader  bool
	inSheet   string
	inOutcome string
	inTop     int
	inSamples int
	inJSON    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile an input sheet before choosing identity, outcome and combination columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		f := cmd.Flags()
		if !f.Changed("header") {
			inHeader = c.HeaderRow
		}
		if !f.Changed("sheet") {
			inSheet = c.Sheet
		}
		if !f.Changed("outcome") {
			inOutcome = c.OutcomeColumn
		}
		d, err := table.ReadFile(args[0], table.ReadOptions{HeaderRow: inHeader, Sheet: inSheet})
		if err != nil {
			return err
		}
		opt := profile.DefaultOptions()
		opt.OutcomeColumn = inOutcome
		if f.Changed("top") {
			opt.TopValues = inTop
		}
		if f.Changed("samples") {
			opt.SampleRows = inSamples
		}
		rep, err := profile.Build(filepath.Base(args[0]), d, opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if inJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprint(out, rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inHeader, "header", false, "first row is a header")
	inspectCmd.Flags().StringVar(&inSheet, "sheet", "", "XLSX sheet name (default: active sheet)")
	inspectCmd.Flags().StringVar(&inOutcome, "outcome", "", "outcome column label to break down (default from config)")
	inspectCmd.Flags().IntVar(&inTop, "top", 5, "top values listed per column")
	inspectCmd.Flags().IntVar(&inSamples, "samples", 3, "leading rows to include")
	inspectCmd.Flags().BoolVar(&inJSON, "json", false, "print the profile as JSON")
}
