// Package batch runs the grouping pipeline over many input files: read,
// aggregate every combination, assemble the report and write it next to
// the inputs. A failing file is logged and recorded; the rest still run.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/combo"
	"github.com/KaramelBytes/combotally-cli/internal/grouping"
	"github.com/KaramelBytes/combotally-cli/internal/report"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoInputs is returned when argument expansion finds no readable file.
var ErrNoInputs = errors.New("no input files matched")

// Options configures a Runner.
type Options struct {
	Columns  *columns.Set
	Size     int
	Grouping grouping.Config
	Layout   report.Layout
	// HeaderRow drops the first row of every input before aggregation.
	HeaderRow bool
	Sheet     string
	// OutputDir overrides the default "<input dir>_output".
	OutputDir string
	// OutputExt is ".csv", ".xlsx" or empty to reuse the input extension.
	OutputExt string
}

// Hooks receive progress notifications. Either may be nil.
type Hooks struct {
	OnFile        func(i, n int, path string)
	OnCombination grouping.ProgressFunc
}

// FileResult records what happened to one input.
type FileResult struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Groups int    `json:"groups"`
	Error  string `json:"error,omitempty"`
}

// Summary describes a whole run.
type Summary struct {
	RunID        string       `json:"run_id"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	Size         int          `json:"size"`
	Paired       bool         `json:"paired"`
	Combinations int          `json:"combinations"`
	Files        []FileResult `json:"files"`
}

// Failed counts inputs that produced an error.
func (s *Summary) Failed() int {
	n := 0
	for _, f := range s.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

// Runner executes the pipeline with a fixed configuration.
type Runner struct {
	opt    Options
	combos []combo.Combination
	width  int
	log    *zap.Logger
	hooks  Hooks
}

// NewRunner validates opt and precomputes the combinations.
func NewRunner(opt Options, log *zap.Logger, hooks Hooks) (*Runner, error) {
	if opt.Columns == nil || opt.Columns.Len() == 0 {
		return nil, errors.New("column set is empty")
	}
	if opt.Size < 1 || opt.Size > opt.Columns.Len() {
		return nil, fmt.Errorf("set size %d out of range 1..%d", opt.Size, opt.Columns.Len())
	}
	if err := opt.Grouping.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(opt.OutputExt) {
	case "", ".csv", ".xlsx", ".tsv":
	default:
		return nil, fmt.Errorf("%w: output %s", table.ErrUnsupportedFormat, opt.OutputExt)
	}
	if log == nil {
		log = zap.NewNop()
	}
	combos := combo.Generate(opt.Columns.Refs(), opt.Size)
	return &Runner{
		opt:    opt,
		combos: combos,
		width:  len(grouping.Members(combos[0], opt.Grouping.IncludePaired)),
		log:    log.Named("batch"),
		hooks:  hooks,
	}, nil
}

// Combinations returns the number of combinations each file is aggregated over.
func (r *Runner) Combinations() int { return len(r.combos) }

// Run processes inputs sequentially and returns the run summary.
func (r *Runner) Run(inputs []string) *Summary {
	runID := uuid.NewString()
	log := r.log.With(zap.String("run_id", runID))
	s := &Summary{
		RunID:        runID,
		StartedAt:    time.Now().UTC(),
		Size:         r.opt.Size,
		Paired:       r.opt.Grouping.IncludePaired,
		Combinations: len(r.combos),
	}
	log.Info("batch started", zap.Int("files", len(inputs)), zap.Int("combinations", len(r.combos)))
	for i, in := range inputs {
		if r.hooks.OnFile != nil {
			r.hooks.OnFile(i+1, len(inputs), in)
		}
		res := FileResult{Input: in}
		out, groups, err := r.ProcessFile(in)
		if err != nil {
			res.Error = err.Error()
			log.Warn("file failed", zap.String("input", in), zap.Error(err))
		} else {
			res.Output = out
			res.Groups = groups
			log.Info("file written", zap.String("input", in), zap.String("output", out), zap.Int("groups", groups))
		}
		s.Files = append(s.Files, res)
	}
	s.FinishedAt = time.Now().UTC()
	log.Info("batch finished", zap.Int("failed", s.Failed()))
	return s
}

// ProcessFile runs the full pipeline for one input and returns the output
// path and the number of groups written.
func (r *Runner) ProcessFile(path string) (string, int, error) {
	d, err := table.ReadFile(path, table.ReadOptions{HeaderRow: r.opt.HeaderRow, Sheet: r.opt.Sheet})
	if err != nil {
		return "", 0, err
	}
	rows := grouping.Run(d.Rows, r.opt.Grouping, r.combos, r.hooks.OnCombination)
	out := report.Assemble(rows, r.width, r.opt.Layout)

	dir := r.opt.OutputDir
	if dir == "" {
		dir = DefaultOutputDir(path)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", 0, &table.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	ext := r.opt.OutputExt
	if ext == "" {
		ext = filepath.Ext(path)
	}
	dest := filepath.Join(dir, OutputName(path, r.opt.Size, r.opt.Grouping.IncludePaired, ext))
	if err := table.WriteFile(dest, out); err != nil {
		return "", 0, err
	}
	return dest, len(rows), nil
}

// OutputName builds "<base>_Size_<k>_Degree_<YES|NO><ext>".
func OutputName(input string, size int, paired bool, ext string) string {
	deg := "NO"
	if paired {
		deg = "YES"
	}
	return fmt.Sprintf("%s_Size_%d_Degree_%s%s", utils.BaseName(input), size, deg, strings.ToLower(ext))
}

// DefaultOutputDir is the input's directory with an "_output" suffix.
func DefaultOutputDir(input string) string {
	dir := filepath.Dir(input)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Clean(dir) + "_output"
}

// ExpandInputs resolves globs, directories and literal paths into a sorted,
// de-duplicated list of supported table files. Directories contribute their
// direct children only.
func ExpandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	// explicit paths are kept even when unsupported so the run reports them
	add := func(p string, explicit bool) {
		if !table.Supported(p) && (!explicit || strings.HasPrefix(filepath.Base(p), "~$")) {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, &table.IOError{Op: "read dir", Path: arg, Err: err}
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(arg, e.Name()), false)
				}
			}
			continue
		}
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				add(arg, true)
			}
			continue
		}
		for _, m := range matches {
			add(m, m == arg)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(files)
	return files, nil
}
