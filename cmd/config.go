package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	cfgpkg "github.com/KaramelBytes/combotally-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set combotally configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "columns: %s\n", c.Columns)
		fmt.Fprintf(out, "set_size: %d\n", c.SetSize)
		fmt.Fprintf(out, "include_paired: %t\n", c.IncludePaired)
		fmt.Fprintf(out, "identity_column: %s\n", c.IdentityColumn)
		fmt.Fprintf(out, "outcome_column: %s\n", c.OutcomeColumn)
		fmt.Fprintf(out, "identity_label: %s\n", c.IdentityLabel)
		fmt.Fprintf(out, "header_row: %t\n", c.HeaderRow)
		fmt.Fprintf(out, "sum_values: %t\n", c.SumValues)
		fmt.Fprintf(out, "pad_width: %d\n", c.PadWidth)
		if c.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		}
		if c.OutputFormat != "" {
			fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		}
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_json: %t\n", c.LogJSON)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// load strictly so a broken file is reported instead of being
		// overwritten with defaults
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "columns":
			if _, err := columns.ParseList(val); err != nil {
				return fmt.Errorf("invalid columns: %w", err)
			}
			c.Columns = val
		case "set_size":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for set_size: %w", err)
			}
			c.SetSize = i
		case "pad_width":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for pad_width: %w", err)
			}
			c.PadWidth = i
		case "include_paired", "header_row", "sum_values", "log_json":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			switch key {
			case "include_paired":
				c.IncludePaired = b
			case "header_row":
				c.HeaderRow = b
			case "sum_values":
				c.SumValues = b
			case "log_json":
				c.LogJSON = b
			}
		case "identity_column":
			c.IdentityColumn = columns.Normalize(val)
		case "outcome_column":
			c.OutcomeColumn = columns.Normalize(val)
		case "identity_label":
			c.IdentityLabel = val
		case "output_dir":
			c.OutputDir = val
		case "output_format":
			c.OutputFormat = strings.ToLower(val)
		case "sheet":
			c.Sheet = val
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
