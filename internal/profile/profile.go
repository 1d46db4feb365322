// Package profile summarizes an input sheet column by column so the
// identity, outcome and combination columns can be chosen before a run.
package profile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/grouping"
	"github.com/KaramelBytes/combotally-cli/internal/table"
)

// Options controls how much detail a profile carries.
type Options struct {
	// TopValues limits the categorical values listed per column.
	TopValues int
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// OutcomeColumn, when set, adds an outcome token breakdown for that column.
	OutcomeColumn string
}

// DefaultOptions returns reasonable defaults for profiling an input sheet.
func DefaultOptions() Options {
	return Options{TopValues: 5, SampleRows: 3}
}

// Report summarizes an input sheet column by column.
type Report struct {
	Name     string          `json:"name,omitempty"`
	Rows     int             `json:"rows"`
	Width    int             `json:"width"`
	Cols     []ColumnSummary `json:"columns"`
	Samples  [][]string      `json:"samples,omitempty"`
	Outcomes *OutcomeSummary `json:"outcomes,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ColumnSummary captures inferred kind and counts per column.
type ColumnSummary struct {
	Label   string          `json:"label"`
	Header  string          `json:"header,omitempty"`
	Kind    string          `json:"kind"` // integer|text|empty
	NonNull int             `json:"non_empty"`
	Missing int             `json:"missing"`
	Unique  int             `json:"unique"`
	Min     int             `json:"min"`
	Max     int             `json:"max"`
	Top     []CategoryCount `json:"top,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// OutcomeSummary counts how rows classify for the configured outcome column.
type OutcomeSummary struct {
	Label    string `json:"label"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// Build profiles d. Rows shorter than a column count as missing for it.
func Build(name string, d *table.Data, opt Options) (*Report, error) {
	r := &Report{Name: name, Rows: len(d.Rows), Width: d.Rows.MaxWidth()}
	if len(d.Header) > r.Width {
		r.Width = len(d.Header)
	}
	for i := 0; i < r.Width; i++ {
		cs := summarize(d.Rows, i, opt.TopValues)
		cs.Header = table.Cell(d.Header, i)
		r.Cols = append(r.Cols, cs)
	}
	n := max(opt.SampleRows, 0)
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	for _, row := range d.Rows[:n] {
		r.Samples = append(r.Samples, append([]string(nil), row...))
	}
	if opt.OutcomeColumn != "" {
		idx, err := columns.IndexOf(opt.OutcomeColumn)
		if err != nil {
			return nil, fmt.Errorf("outcome column: %w", err)
		}
		o := &OutcomeSummary{Label: columns.LabelOf(idx)}
		for _, row := range d.Rows {
			switch grouping.Classify(table.Cell(row, idx)) {
			case grouping.Positive:
				o.Positive++
			case grouping.Negative:
				o.Negative++
			default:
				o.Neutral++
			}
		}
		r.Outcomes = o
		if len(d.Rows) > 0 && o.Positive+o.Negative == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("outcome column %s has no over/under or win/lose tokens; every bucket would be dropped", o.Label))
		}
	}
	for _, c := range r.Cols {
		if c.Kind == "empty" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("column %s is empty", c.Label))
		}
	}
	return r, nil
}

func summarize(rows table.Table, idx, topN int) ColumnSummary {
	cs := ColumnSummary{Label: columns.LabelOf(idx)}
	counts := map[string]int{}
	allInt := true
	first := true
	for _, row := range rows {
		v := strings.TrimSpace(table.Cell(row, idx))
		if v == "" {
			cs.Missing++
			continue
		}
		cs.NonNull++
		counts[v]++
		n, err := strconv.Atoi(v)
		if err != nil {
			allInt = false
			continue
		}
		if first || n < cs.Min {
			cs.Min = n
		}
		if first || n > cs.Max {
			cs.Max = n
		}
		first = false
	}
	cs.Unique = len(counts)
	switch {
	case cs.NonNull == 0:
		cs.Kind = "empty"
	case allInt:
		cs.Kind = "integer"
	default:
		cs.Kind = "text"
		cs.Min, cs.Max = 0, 0
	}
	cs.Top = topValues(counts, topN)
	return cs
}

func topValues(counts map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Markdown renders a compact report for the terminal or a standalone doc.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SHEET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", r.Width))

	b.WriteString("[COLUMNS]\n")
	for _, c := range r.Cols {
		name := c.Label
		if c.Header != "" {
			name = fmt.Sprintf("%s (%s)", c.Label, c.Header)
		}
		b.WriteString(fmt.Sprintf("- %s: %s, non-empty %d, missing %d, unique %d", name, c.Kind, c.NonNull, c.Missing, c.Unique))
		if c.Kind == "integer" {
			b.WriteString(fmt.Sprintf(", range %d..%d", c.Min, c.Max))
		}
		if len(c.Top) > 0 && c.Kind != "empty" {
			b.WriteString("; top: ")
			for i, kv := range c.Top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
		}
		b.WriteString("\n")
	}
	if r.Outcomes != nil {
		o := r.Outcomes
		b.WriteString(fmt.Sprintf("\n[OUTCOMES %s]\n", o.Label))
		b.WriteString(fmt.Sprintf("positive %d, negative %d, neutral %d\n", o.Positive, o.Negative, o.Neutral))
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		for _, s := range r.Samples {
			b.WriteString(strings.Join(s, " | "))
			b.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
