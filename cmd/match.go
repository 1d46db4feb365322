package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/combotally-cli/internal/batch"
	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/matcher"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mtTrailing   int
	mtIdentity   string
	mtHistHeader bool
	mtWorkers    int
	mtOut        string
	mtSheet      string
)

var matchCmd = &cobra.Command{
	Use:   "match <daily-file> <historical files|dirs...>",
	Short: "Find daily rows that satisfy previously generated report rows",
	Long: `match parses every historical report row as identity, column/value pairs and a
fixed number of trailing summary cells (--trailing), then emits each daily row that
has the same identity and satisfies every pair. A "lo-hi" value matches by integer
range, anything else by exact text; empty and "0" values are ignored.
Output: <daily>_Matches.xlsx with the daily row followed by the historical row.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dailyPath := args[0]
		idIdx, err := columns.IndexOf(mtIdentity)
		if err != nil {
			return fmt.Errorf("--identity: %w", err)
		}
		if mtTrailing < 0 {
			return fmt.Errorf("--trailing must be >= 0")
		}
		daily, err := table.ReadFile(dailyPath, table.ReadOptions{Sheet: mtSheet})
		if err != nil {
			return err
		}
		histFiles, err := batch.ExpandInputs(args[1:])
		if err != nil {
			return err
		}
		log := currentLogger().Named("match")
		sources, errs := matcher.LoadSources(histFiles, table.ReadOptions{HeaderRow: mtHistHeader}, log)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "⚠ Skipped: %v\n", e)
		}
		if len(sources) == 0 {
			return fmt.Errorf("no readable historical files")
		}
		fmt.Printf("Matching %d daily rows against %d historical files...\n", len(daily.Rows), len(sources))
		rows, err := matcher.Match(cmd.Context(), daily.Rows, sources, matcher.Options{
			IdentityColumn: idIdx,
			Trailing:       mtTrailing,
			Workers:        mtWorkers,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No matches found.")
			return nil
		}
		dest := mtOut
		if dest == "" {
			dest = matcher.OutputPath(dailyPath)
		}
		if err := table.WriteFile(dest, rows); err != nil {
			return err
		}
		log.Info("matches written", zap.String("output", dest), zap.Int("rows", len(rows)))
		fmt.Printf("✓ Wrote %d matches to %s\n", len(rows), filepath.Clean(dest))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().IntVar(&mtTrailing, "trailing", 3, "summary cells closing each historical row (3 default layout, 4 with --sum)")
	matchCmd.Flags().StringVar(&mtIdentity, "identity", "A", "identity column label in the daily sheet")
	matchCmd.Flags().BoolVar(&mtHistHeader, "hist-header", true, "historical files start with a header row")
	matchCmd.Flags().IntVar(&mtWorkers, "workers", 0, "historical files matched in parallel (0 = number of CPUs)")
	matchCmd.Flags().StringVarP(&mtOut, "out", "o", "", "output file (default <daily>_Matches.xlsx)")
	matchCmd.Flags().StringVar(&mtSheet, "sheet", "", "XLSX: daily sheet name (default: active sheet)")
}
