package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/combo"
	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Column label utilities",
}

var columnsIndexCmd = &cobra.Command{
	Use:   "index <label...>",
	Short: "Print the zero-based index of each label",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			i, err := columns.IndexOf(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", columns.Normalize(a), i)
		}
		return nil
	},
}

var columnsLabelCmd = &cobra.Command{
	Use:   "label <index...>",
	Short: "Print the label of each zero-based index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			i, err := strconv.Atoi(a)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid index: %s", a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, columns.LabelOf(i))
		}
		return nil
	},
}

var columnsNextCmd = &cobra.Command{
	Use:   "next <label>",
	Short: "Print the label to the right of label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := columns.Next(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var columnsPresetCmd = &cobra.Command{
	Use:   "preset [name]",
	Short: "List presets, or the labels and combination counts of one preset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, n := range columns.PresetNames() {
				labels, _ := columns.Preset(n)
				fmt.Fprintf(out, "%-9s %s\n", n, strings.Join(labels, ","))
			}
			return nil
		}
		labels, err := columns.Preset(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(labels, ","))
		for k := 1; k <= len(labels); k++ {
			fmt.Fprintf(out, "  size %2d: %d combinations\n", k, combo.Count(len(labels), k))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.AddCommand(columnsIndexCmd)
	columnsCmd.AddCommand(columnsLabelCmd)
	columnsCmd.AddCommand(columnsNextCmd)
	columnsCmd.AddCommand(columnsPresetCmd)
}
