package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// resetFlags restores every flag of the tree to its default so values set
// by one invocation do not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		// slice values append once set, so clear them instead; commands
		// fall back to config when the flag is unchanged
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sc := range c.Commands() {
		resetFlags(sc)
	}
}

// execCmd runs the root command with args and returns captured output.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	logger = zap.NewNop()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const dailyCSV = `P1,win,NYY,12,x
P1,lose,NYY,12,y
P1,over,BOS,15,x
P2,under,NYY,40,x
`

func TestCLI_BulkWritesOneReportPerSize(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "daily")
	writeFile(t, filepath.Join(in, "day1.csv"), dailyCSV)
	writeFile(t, filepath.Join(in, "~$day1.xlsx"), "lock")
	summary := filepath.Join(home, "summary.json")

	runCmd(t, "bulk", in, "--columns", "C,D,E", "--outcome", "B", "--size", "1,2", "--quiet", "--summary", summary)

	outDir := in + "_output"
	for _, name := range []string{"day1_Size_1_Degree_NO.csv", "day1_Size_2_Degree_NO.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	d, err := table.ReadFile(filepath.Join(outDir, "day1_Size_2_Degree_NO.csv"), table.ReadOptions{HeaderRow: true})
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if got := strings.Join(d.Header, ","); got != "Player,Col_1,Val_1,Col_2,Val_2,Total,Win Total,Win% Over" {
		t.Fatalf("unexpected header: %s", got)
	}
	// first combination (C,D): P1 BOS/15 is 1 of 1, P1 NYY/12 is 1 of 2, P2 NYY/40 is 0 of 1
	want := []string{"P1", "C", "BOS", "D", "15", "1", "1", "1.00"}
	if strings.Join(d.Rows[0], "|") != strings.Join(want, "|") {
		t.Fatalf("first row = %v, want %v", d.Rows[0], want)
	}
	want = []string{"P1", "C", "NYY", "D", "12", "2", "1", "0.50"}
	if strings.Join(d.Rows[1], "|") != strings.Join(want, "|") {
		t.Fatalf("second row = %v, want %v", d.Rows[1], want)
	}
	// (C,D) yields 3 groups, (C,E) and (D,E) yield 4 each
	if len(d.Rows) != 11 {
		t.Fatalf("expected 11 groups, got %d", len(d.Rows))
	}

	b, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var runs []struct {
		RunID string `json:"run_id"`
		Size  int    `json:"size"`
		Files []struct {
			Output string `json:"output"`
		} `json:"files"`
	}
	if err := json.Unmarshal(b, &runs); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(runs) != 2 || runs[0].Size != 1 || runs[1].Size != 2 || len(runs[0].Files) != 1 {
		t.Fatalf("unexpected summary: %s", b)
	}
}

func TestCLI_BulkPairedWithHeaderAndSum(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "sheet.csv")
	writeFile(t, in, "Player,Result,Deg,Sign\n"+
		"P1,win,7,Leo\n"+
		"P1,lose,7,Leo\n")
	out := filepath.Join(home, "reports")

	runCmd(t, "bulk", in, "--columns", "C", "--outcome", "B", "--size", "1", "--paired", "--header", "--sum", "--pad", "3", "--format", "xlsx", "-o", out, "--quiet")

	d, err := table.ReadFile(filepath.Join(out, "sheet_Size_1_Degree_YES.xlsx"), table.ReadOptions{HeaderRow: true})
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	want := "P1|C|007|D|Leo|7|2|1|0.50"
	if got := strings.Join(d.Rows[0], "|"); got != want {
		t.Fatalf("row = %s, want %s", got, want)
	}
}

func TestCLI_BulkRejectsUnknownColumn(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "day.csv")
	writeFile(t, in, dailyCSV)
	_, err := execCmd(t, "bulk", in, "--columns", "C,D,E", "--only", "C,AZ", "--outcome", "B", "--quiet")
	if !errors.Is(err, columns.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestCLI_BrokenConfigFallsBackToDefaults(t *testing.T) {
	home := setHome(t)
	writeFile(t, filepath.Join(home, ".combotally", "config.yaml"), "set_size: 0\n")
	in := filepath.Join(home, "day.csv")
	writeFile(t, in, dailyCSV)

	runCmd(t, "bulk", in, "--columns", "C,D,E", "--outcome", "B", "--size", "1", "--quiet")
	if _, err := os.Stat(filepath.Join(home+"_output", "day_Size_1_Degree_NO.csv")); err != nil {
		t.Fatalf("bulk did not run on defaults: %v", err)
	}
	if out := runCmd(t, "config", "show"); !strings.Contains(out, "set_size: 3") {
		t.Fatalf("expected default set_size, got:\n%s", out)
	}
	// set must not replace the broken file with defaults
	if _, err := execCmd(t, "config", "set", "pad_width", "2"); err == nil {
		t.Fatalf("expected config set to report the invalid file")
	}
	b, err := os.ReadFile(filepath.Join(home, ".combotally", "config.yaml"))
	if err != nil || string(b) != "set_size: 0\n" {
		t.Fatalf("config file changed: %q, %v", b, err)
	}
}

func TestCLI_BiorhythmRejectsOversizedLabel(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "people.csv")
	writeFile(t, in, "Name,DOB,Game Date\nA,2000-01-01,2000-01-08\n")
	_, err := execCmd(t, "biorhythm", in, "--dob", "ZZZZZZZZZZZZZZ", "--date", "C")
	if !errors.Is(err, columns.ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestCLI_BulkAllInputsFailing(t *testing.T) {
	home := setHome(t)
	bad := filepath.Join(home, "notes.txt")
	writeFile(t, bad, "x")
	if _, err := execCmd(t, "bulk", bad, "--columns", "C", "--size", "1", "--quiet"); err == nil {
		t.Fatalf("expected error when every input fails")
	}
}

func TestCLI_MatchFindsDailyRows(t *testing.T) {
	home := setHome(t)
	daily := filepath.Join(home, "today.csv")
	writeFile(t, daily, dailyCSV)
	hist := filepath.Join(home, "hist", "h1.csv")
	writeFile(t, hist, "Player,Col_1,Val_1,Col_2,Val_2,Total,Win Total,Win% Over\n"+
		"P1,C,NYY,D,10-13,2,1,0.50\n"+
		"P2,C,BOS,,,1,0,0.00\n")

	runCmd(t, "match", daily, filepath.Join(home, "hist"))

	d, err := table.ReadFile(filepath.Join(home, "today_Matches.xlsx"), table.ReadOptions{})
	if err != nil {
		t.Fatalf("read matches: %v", err)
	}
	if len(d.Rows) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(d.Rows), d.Rows)
	}
	if d.Rows[0][0] != "P1" || d.Rows[0][4] != "x" || d.Rows[0][9] != "10-13" {
		t.Fatalf("unexpected first match: %v", d.Rows[0])
	}
	if d.Rows[1][4] != "y" {
		t.Fatalf("unexpected second match: %v", d.Rows[1])
	}
}

func TestCLI_SplitByColumn(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "day.csv")
	writeFile(t, in, dailyCSV)

	runCmd(t, "split", in, "--column", "c", "--quiet")

	for name, rows := range map[string]int{"split_C_NYY.csv": 3, "split_C_BOS.csv": 1} {
		d, err := table.ReadFile(filepath.Join(home, "outputs", name), table.ReadOptions{})
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(d.Rows) != rows {
			t.Fatalf("%s has %d rows, want %d", name, len(d.Rows), rows)
		}
	}
	if _, err := execCmd(t, "split", in, "--column", "Z"); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestCLI_BucketDegreeColumns(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "day.csv")
	writeFile(t, in, "P1,"+strings.Repeat(",", 19)+"5,x,17\n")
	ranges := filepath.Join(home, "groups.txt")
	writeFile(t, ranges, "0-9\n10-19\n")

	runCmd(t, "bucket", in, "--ranges", ranges, "--columns", "U,W")

	d, err := table.ReadFile(filepath.Join(home, "day_UW_Grouped.xlsx"), table.ReadOptions{})
	if err != nil {
		t.Fatalf("read grouped: %v", err)
	}
	row := d.Rows[0]
	if row[20] != "0-9" || row[21] != "x" || row[22] != "10-19" {
		t.Fatalf("unexpected bucketed cells: %v", row[20:])
	}
	if _, err := execCmd(t, "bucket", in, "--ranges", ranges, "--columns", "V"); !errors.Is(err, columns.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn for V, got %v", err)
	}
}

func TestCLI_Biorhythm(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "people.csv")
	writeFile(t, in, "Name,DOB,Game Date\nA,2000-01-01,2000-01-08\nB,bad,2000-01-08\n")

	runCmd(t, "biorhythm", in, "--dob", "DOB", "--date", "C")

	d, err := table.ReadFile(filepath.Join(home, "people_with_biorhythms.csv"), table.ReadOptions{HeaderRow: true})
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(d.Header) != 10 || d.Header[3] != "Emotional" {
		t.Fatalf("unexpected header: %v", d.Header)
	}
	if d.Rows[0][3] != "100" || d.Rows[1][3] != "0" {
		t.Fatalf("unexpected values: %v", d.Rows)
	}
}

func TestCLI_ColumnsUtilities(t *testing.T) {
	setHome(t)
	if out := runCmd(t, "columns", "next", "AZ"); strings.TrimSpace(out) != "BA" {
		t.Fatalf("next AZ = %q", out)
	}
	if out := runCmd(t, "columns", "index", "bk"); !strings.Contains(out, "BK\t62") {
		t.Fatalf("index bk = %q", out)
	}
	if out := runCmd(t, "columns", "label", "41"); !strings.Contains(out, "41\tAP") {
		t.Fatalf("label 41 = %q", out)
	}
	if out := runCmd(t, "columns", "preset", "star"); !strings.Contains(out, "size  3: 165 combinations") {
		t.Fatalf("preset star = %q", out)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := setHome(t)
	runCmd(t, "config", "set", "set_size", "5")
	runCmd(t, "config", "set", "include_paired", "true")
	if _, err := os.Stat(filepath.Join(home, ".combotally", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "set_size: 5") || !strings.Contains(out, "include_paired: true") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
	if _, err := execCmd(t, "config", "set", "set_size", "0"); err == nil {
		t.Fatalf("expected validation error for set_size 0")
	}
	if _, err := execCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCLI_InspectProfilesSheet(t *testing.T) {
	setHome(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "daily.csv")
	writeFile(t, in, dailyCSV)
	out := runCmd(t, "inspect", in, "--outcome", "B")
	if !strings.Contains(out, "Rows: 4") || !strings.Contains(out, "positive 2, negative 2, neutral 0") {
		t.Fatalf("unexpected inspect output:\n%s", out)
	}
	if !strings.Contains(out, "- D: integer, non-empty 4, missing 0, unique 3, range 12..40") {
		t.Fatalf("missing column D summary:\n%s", out)
	}

	out = runCmd(t, "inspect", in, "--json", "--samples", "0")
	var rep struct {
		Rows int `json:"rows"`
		Cols []struct {
			Label string `json:"label"`
			Kind  string `json:"kind"`
		} `json:"columns"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if rep.Rows != 4 || len(rep.Cols) != 5 || rep.Cols[0].Label != "A" {
		t.Fatalf("unexpected json profile: %+v", rep)
	}

	out = runCmd(t, "inspect", in, "--samples=-1")
	if strings.Contains(out, "[SAMPLE ROWS]") {
		t.Fatalf("negative sample count should list no rows:\n%s", out)
	}
}
