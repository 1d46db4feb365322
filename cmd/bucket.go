package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/rangemap"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	bcRanges  string
	bcColumns []string
	bcSet     string
	bcHeader  bool
	bcFormat  string
	bcSheet   string
)

var bucketCmd = &cobra.Command{
	Use:   "bucket <file>",
	Short: "Replace integer cells of selected columns with the lo-hi range containing them",
	Long: `bucket reads one range per line ("0-9", "10-19", ...) from --ranges and rewrites
the selected degree columns. Values outside every range and non-integers are kept.
Output: <name>_<COLUMNS>_Grouped.xlsx next to the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		if bcRanges == "" {
			return fmt.Errorf("--ranges is required")
		}
		if len(bcColumns) == 0 {
			return fmt.Errorf("select at least one column with --columns")
		}
		labels, err := columns.ParseList(bcSet)
		if err != nil {
			return err
		}
		set, err := columns.SetFromLabels(labels)
		if err != nil {
			return err
		}
		selected := make([]string, 0, len(bcColumns))
		for _, c := range bcColumns {
			if c = columns.Normalize(c); c != "" {
				selected = append(selected, c)
			}
		}
		idx, err := rangemap.Resolve(set, selected)
		if err != nil {
			return err
		}
		ranges, err := rangemap.LoadRanges(bcRanges)
		if err != nil {
			return err
		}
		if len(ranges) == 0 {
			return fmt.Errorf("no ranges in %s", bcRanges)
		}
		d, err := table.ReadFile(in, table.ReadOptions{HeaderRow: bcHeader, Sheet: bcSheet})
		if err != nil {
			return err
		}
		out := rangemap.Apply(d.Rows, idx, ranges)

		ext, err := outputExt(bcFormat)
		if err != nil {
			return err
		}
		dest := rangemap.OutputPath(in, selected, ext)
		if err := table.WriteFile(dest, table.WithHeader(d.Header, out)); err != nil {
			return err
		}
		currentLogger().Info("bucketed", zap.String("input", in), zap.Strings("columns", selected), zap.Int("ranges", len(ranges)))
		fmt.Printf("✓ Wrote %s (%s bucketed into %d ranges)\n", dest, strings.Join(selected, ","), len(ranges))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bucketCmd)
	bucketCmd.Flags().StringVarP(&bcRanges, "ranges", "r", "", "text file with one lo-hi range per line")
	bucketCmd.Flags().StringSliceVarP(&bcColumns, "columns", "c", nil, "columns to bucket, e.g. U,W,AQ")
	bucketCmd.Flags().StringVar(&bcSet, "set", "degree", "column preset or label list the selection must come from")
	bucketCmd.Flags().BoolVar(&bcHeader, "header", false, "keep the first row as an unmodified header")
	bucketCmd.Flags().StringVar(&bcFormat, "format", "xlsx", "output format: csv|tsv|xlsx")
	bucketCmd.Flags().StringVar(&bcSheet, "sheet", "", "XLSX: sheet name to read (default: active sheet)")
}
