package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/batch"
	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/combo"
	"github.com/KaramelBytes/combotally-cli/internal/grouping"
	"github.com/KaramelBytes/combotally-cli/internal/report"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	bkColumns       string
	bkOnly          []string
	bkSizes         []int
	bkPaired        bool
	bkIdentity      string
	bkOutcome       string
	bkIdentityLabel string
	bkHeader        bool
	bkSum           bool
	bkPad           int
	bkOut           string
	bkFormat        string
	bkSheet         string
	bkSummary       string
	bkQuiet         bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <files|dirs|globs...>",
	Short: "Group and count outcomes over every column combination of each input sheet",
	Long: `bulk reads every CSV/XLSX input (directories contribute their files, "~$" lock
files are skipped), groups rows by identity plus the values of each k-combination of
the column set and writes one report per input and set size:

  <input dir>_output/<name>_Size_<k>_Degree_<YES|NO>.<ext>

A failing input is reported and skipped; the remaining inputs still run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		f := cmd.Flags()
		if !f.Changed("columns") {
			bkColumns = c.Columns
		}
		if !f.Changed("size") {
			bkSizes = []int{c.SetSize}
		}
		if !f.Changed("paired") {
			bkPaired = c.IncludePaired
		}
		if !f.Changed("identity") {
			bkIdentity = c.IdentityColumn
		}
		if !f.Changed("outcome") {
			bkOutcome = c.OutcomeColumn
		}
		if !f.Changed("identity-label") {
			bkIdentityLabel = c.IdentityLabel
		}
		if !f.Changed("header") {
			bkHeader = c.HeaderRow
		}
		if !f.Changed("sum") {
			bkSum = c.SumValues
		}
		if !f.Changed("pad") {
			bkPad = c.PadWidth
		}
		if !f.Changed("out") {
			bkOut = c.OutputDir
		}
		if !f.Changed("format") {
			bkFormat = c.OutputFormat
		}
		if !f.Changed("sheet") {
			bkSheet = c.Sheet
		}

		set, err := columnSet(bkColumns, bkOnly)
		if err != nil {
			return err
		}
		idIdx, err := columns.IndexOf(bkIdentity)
		if err != nil {
			return fmt.Errorf("--identity: %w", err)
		}
		outIdx, err := columns.IndexOf(bkOutcome)
		if err != nil {
			return fmt.Errorf("--outcome: %w", err)
		}
		ext, err := outputExt(bkFormat)
		if err != nil {
			return err
		}
		files, err := batch.ExpandInputs(args)
		if err != nil {
			return err
		}

		sizes := append([]int(nil), bkSizes...)
		sort.Ints(sizes)
		log := currentLogger()
		failed, total := 0, 0
		var summaries []*batch.Summary
		for _, k := range sizes {
			opt := batch.Options{
				Columns: set,
				Size:    k,
				Grouping: grouping.Config{
					IdentityColumn: idIdx,
					OutcomeColumn:  outIdx,
					IncludePaired:  bkPaired,
					SumValues:      bkSum,
					PadWidth:       bkPad,
				},
				Layout:    report.Layout{IdentityLabel: bkIdentityLabel, Sum: bkSum},
				HeaderRow: bkHeader,
				Sheet:     bkSheet,
				OutputDir: bkOut,
				OutputExt: ext,
			}
			hooks := batch.Hooks{}
			if !bkQuiet {
				hooks.OnFile = func(i, n int, path string) {
					fmt.Printf("[%d/%d] Processing %s (size %d)...\n", i, n, filepath.Base(path), k)
				}
				hooks.OnCombination = func(done, n int, cb combo.Combination) {
					fmt.Printf("\r  %d/%d combinations", done, n)
					if done == n {
						fmt.Println()
					}
				}
			}
			r, err := batch.NewRunner(opt, log, hooks)
			if err != nil {
				return err
			}
			s := r.Run(files)
			summaries = append(summaries, s)
			for _, fr := range s.Files {
				total++
				if fr.Error != "" {
					failed++
					fmt.Fprintf(os.Stderr, "⚠ Skipped %s: %s\n", filepath.Base(fr.Input), fr.Error)
					continue
				}
				if !bkQuiet {
					fmt.Printf("✓ Wrote %s (%d groups)\n", fr.Output, fr.Groups)
				}
			}
		}

		if bkSummary != "" {
			b, err := utils.PrettyJSON(summaries)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(bkSummary, b); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
		}
		if failed == total {
			return fmt.Errorf("all %d runs failed", total)
		}
		return nil
	},
}

// columnSet resolves a preset or label list and narrows it to only, where
// every label of only must belong to the base set.
func columnSet(spec string, only []string) (*columns.Set, error) {
	labels, err := columns.ParseList(spec)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no columns configured")
	}
	set, err := columns.SetFromLabels(labels)
	if err != nil {
		return nil, err
	}
	if len(only) == 0 {
		return set, nil
	}
	m := map[string]int{}
	for _, l := range only {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		idx, err := set.Resolve(l)
		if err != nil {
			return nil, err
		}
		m[l] = idx
	}
	return columns.NewSet(m)
}

func outputExt(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "":
		return "", nil
	case "csv":
		return ".csv", nil
	case "tsv":
		return ".tsv", nil
	case "xlsx", "excel":
		return ".xlsx", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use csv|tsv|xlsx)", format)
	}
}

func init() {
	rootCmd.AddCommand(bulkCmd)
	bulkCmd.Flags().StringVar(&bkColumns, "columns", "star", "column preset (star|star-odd|degree) or comma-separated labels")
	bulkCmd.Flags().StringSliceVar(&bkOnly, "only", nil, "restrict to these labels of the column set")
	bulkCmd.Flags().IntSliceVarP(&bkSizes, "size", "k", []int{3}, "combination size(s), e.g. --size 3,4,5")
	bulkCmd.Flags().BoolVar(&bkPaired, "paired", false, "include the column right of each member (degree columns)")
	bulkCmd.Flags().StringVar(&bkIdentity, "identity", "A", "identity column label")
	bulkCmd.Flags().StringVar(&bkOutcome, "outcome", "H", "outcome column label (over/under/win/lose)")
	bulkCmd.Flags().StringVar(&bkIdentityLabel, "identity-label", "Player", "header text for the identity column")
	bulkCmd.Flags().BoolVar(&bkHeader, "header", false, "treat the first row of each input as a header")
	bulkCmd.Flags().BoolVar(&bkSum, "sum", false, "add a Count column with the sum of member values")
	bulkCmd.Flags().IntVar(&bkPad, "pad", 0, "zero-pad integer values to this width (0 = off)")
	bulkCmd.Flags().StringVarP(&bkOut, "out", "o", "", "output directory (default <input dir>_output)")
	bulkCmd.Flags().StringVar(&bkFormat, "format", "", "output format: csv|tsv|xlsx (default: same as input)")
	bulkCmd.Flags().StringVar(&bkSheet, "sheet", "", "XLSX: sheet name to read (default: active sheet)")
	bulkCmd.Flags().StringVar(&bkSummary, "summary", "", "write a JSON run summary to this path")
	bulkCmd.Flags().BoolVar(&bkQuiet, "quiet", false, "suppress progress and non-essential output")
}
