// Package matcher finds the rows of a daily sheet that satisfy previously
// generated report rows (identity plus column/value pairs).
package matcher

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/rangemap"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Condition is one column/value requirement of a Pattern.
type Condition struct {
	Label string
	Index int
	Value string
	// Range is set when Value reads as "lo-hi".
	Range *rangemap.Range
}

// Pattern is a parsed historical report row.
type Pattern struct {
	Identity   string
	Conditions []Condition
	Raw        []string
}

// ParsePattern reads identity, label/value pairs and trailing summary
// cells. Pairs with an empty or "0" value, or an unusable label, impose no
// condition. ok is false for rows too short to hold identity and trailer.
func ParsePattern(row []string, trailing int) (Pattern, bool) {
	if len(row) < 1+trailing {
		return Pattern{}, false
	}
	p := Pattern{Identity: row[0], Raw: row}
	end := len(row) - trailing
	for i := 1; i+1 < end; i += 2 {
		label := columns.Normalize(row[i])
		val := strings.TrimSpace(row[i+1])
		if val == "" || val == "0" {
			continue
		}
		idx, err := columns.IndexOf(label)
		if err != nil {
			continue
		}
		c := Condition{Label: label, Index: idx, Value: val}
		if r, err := rangemap.ParseRange(val); err == nil {
			c.Range = &r
		}
		p.Conditions = append(p.Conditions, c)
	}
	return p, true
}

// Matches reports whether daily row satisfies p. Range conditions compare
// the daily cell as an integer; others compare text exactly. Empty daily
// cells impose nothing.
func (p Pattern) Matches(row []string, identityColumn int) bool {
	if table.Cell(row, identityColumn) != p.Identity {
		return false
	}
	for _, c := range p.Conditions {
		dv := strings.TrimSpace(table.Cell(row, c.Index))
		if dv == "" {
			continue
		}
		if c.Range != nil {
			n, err := strconv.Atoi(dv)
			if err != nil || !c.Range.Contains(n) {
				return false
			}
			continue
		}
		if dv != c.Value {
			return false
		}
	}
	return true
}

// Source is one historical file's rows.
type Source struct {
	Path string
	Rows table.Table
}

// Options configures Match.
type Options struct {
	IdentityColumn int
	// Trailing is the number of summary cells closing each historical row.
	Trailing int
	// Workers bounds concurrent sources; 0 means GOMAXPROCS.
	Workers int
}

// Match evaluates every historical row of every source against every daily
// row. Each hit yields the daily row followed by the historical row.
// Sources run concurrently; results keep source, then historical row, then
// daily row order.
func Match(ctx context.Context, daily table.Table, sources []Source, opt Options) (table.Table, error) {
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]table.Table, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			var out table.Table
			for _, hr := range src.Rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				p, ok := ParsePattern(hr, opt.Trailing)
				if !ok {
					continue
				}
				for _, dr := range daily {
					if p.Matches(dr, opt.IdentityColumn) {
						line := make([]string, 0, len(dr)+len(hr))
						line = append(line, dr...)
						out = append(out, append(line, hr...))
					}
				}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	var all table.Table
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// LoadSources reads historical files. Unreadable files are logged and
// skipped; their errors are returned alongside the loaded sources.
func LoadSources(paths []string, opt table.ReadOptions, log *zap.Logger) ([]Source, []error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		out  []Source
		errs []error
	)
	for _, p := range paths {
		d, err := table.ReadFile(p, opt)
		if err != nil {
			log.Warn("historical file skipped", zap.String("path", p), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		out = append(out, Source{Path: p, Rows: d.Rows})
	}
	return out, errs
}

// OutputPath is "<daily base>_Matches.xlsx" beside the daily file.
func OutputPath(daily string) string {
	return filepath.Join(filepath.Dir(daily), utils.BaseName(daily)+"_Matches.xlsx")
}
