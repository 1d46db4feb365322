package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/biorhythm"
	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	brDOB   string
	brDate  string
	brOut   string
	brSheet string
)

var biorhythmCmd = &cobra.Command{
	Use:   "biorhythm <file>",
	Short: "Add Emotional/Physical/Intellectual/... biorhythm columns from two date columns",
	Long: `biorhythm reads a sheet whose first row is a header, computes the seven cycles
(physical 23, emotional 28, intellectual 33, intuitive 38, aesthetic 43, awareness 48,
spiritual 53 days) for each row's birth date and target date and writes
<name>_with_biorhythms.<csv|xlsx>. Rows with unparseable dates get 0 everywhere.
--dob and --date accept a header name or a column label.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		d, err := table.ReadFile(in, table.ReadOptions{HeaderRow: true, Sheet: brSheet})
		if err != nil {
			return err
		}
		dobIdx, err := headerOrLabel(d.Header, brDOB)
		if err != nil {
			return fmt.Errorf("--dob: %w", err)
		}
		dateIdx, err := headerOrLabel(d.Header, brDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		header, rows := biorhythm.Apply(d.Header, d.Rows, dobIdx, dateIdx)
		dest := brOut
		if dest == "" {
			dest = biorhythm.OutputPath(in)
		}
		if err := table.WriteFile(dest, table.WithHeader(header, rows)); err != nil {
			return err
		}
		currentLogger().Info("biorhythms written", zap.String("output", dest), zap.Int("rows", len(rows)))
		fmt.Printf("✓ Wrote %s (%d rows)\n", dest, len(rows))
		return nil
	},
}

// headerOrLabel resolves s as a header name first, then as a column label.
func headerOrLabel(header []string, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("column is required")
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), s) {
			return i, nil
		}
	}
	return columns.IndexOf(s)
}

func init() {
	rootCmd.AddCommand(biorhythmCmd)
	biorhythmCmd.Flags().StringVar(&brDOB, "dob", "", "birth date column (header name or label)")
	biorhythmCmd.Flags().StringVar(&brDate, "date", "", "target date column (header name or label)")
	biorhythmCmd.Flags().StringVarP(&brOut, "out", "o", "", "output file (default <name>_with_biorhythms.<ext>)")
	biorhythmCmd.Flags().StringVar(&brSheet, "sheet", "", "XLSX: sheet name to read (default: active sheet)")
}
