package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/split"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	spColumn string
	spHeader bool
	spOut    string
	spSheet  string
	spQuiet  bool
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a sheet into one file per distinct value of a column",
	Long: `split writes outputs/split_<COLUMN>_<value>.<ext> next to the input for every
distinct value found in --column. Path separators in values become underscores.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		label := columns.Normalize(spColumn)
		idx, err := columns.IndexOf(label)
		if err != nil {
			return fmt.Errorf("--column: %w", err)
		}
		d, err := table.ReadFile(in, table.ReadOptions{HeaderRow: spHeader, Sheet: spSheet})
		if err != nil {
			return err
		}
		parts, err := split.ByColumn(d.Rows, idx)
		if err != nil {
			return err
		}
		dir := spOut
		if dir == "" {
			dir = split.OutputDir(in)
		}
		written, err := split.Write(parts, d.Header, dir, label, filepath.Ext(in))
		if err != nil {
			return err
		}
		currentLogger().Info("split", zap.String("input", in), zap.String("column", label), zap.Int("files", len(written)))
		if !spQuiet {
			for _, w := range written {
				fmt.Printf("✓ Wrote %s\n", w)
			}
		}
		fmt.Printf("Split complete: %d files in %s\n", len(written), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVarP(&spColumn, "column", "c", "", "column label to split by (e.g. C)")
	_ = splitCmd.MarkFlagRequired("column")
	splitCmd.Flags().BoolVar(&spHeader, "header", false, "repeat the first row as header in every output")
	splitCmd.Flags().StringVarP(&spOut, "out", "o", "", "output directory (default <input dir>/outputs)")
	splitCmd.Flags().StringVar(&spSheet, "sheet", "", "XLSX: sheet name to read (default: active sheet)")
	splitCmd.Flags().BoolVar(&spQuiet, "quiet", false, "only print the final line")
}
