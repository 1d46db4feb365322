// Package grouping tallies outcomes per (identity, column-combination values)
// group across the rows of a table.
package grouping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/combo"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/shopspring/decimal"
)

// Config selects the identity and outcome columns and the optional extras.
type Config struct {
	IdentityColumn int
	OutcomeColumn  int
	// IncludePaired adds the column right of every member to the group key.
	IncludePaired bool
	// SumValues fills OutputRow.Sum with the integer sum of member values.
	SumValues bool
	// PadWidth zero-pads integer member values in the output (0 disables).
	PadWidth int
}

// Validate rejects negative column indices.
func (c Config) Validate() error {
	if c.IdentityColumn < 0 || c.OutcomeColumn < 0 {
		return fmt.Errorf("identity and outcome columns must be non-negative (got %d, %d)", c.IdentityColumn, c.OutcomeColumn)
	}
	if c.PadWidth < 0 {
		return fmt.Errorf("pad width must be non-negative (got %d)", c.PadWidth)
	}
	return nil
}

// Member is one (column, value) pair of an output row.
type Member struct {
	Label string
	Value string
}

// OutputRow summarizes one group.
type OutputRow struct {
	Identity string
	Members  []Member
	Sum      int
	Total    int
	Positive int
	Negative int
	// Rate is Positive/Total rounded half away from zero to two places.
	Rate decimal.Decimal
}

type bucket struct {
	identity string
	values   []string
	pos, neg int
}

// Members expands a combination into the refs whose cells form the group
// key, inserting each member's right-hand neighbour when paired is set.
func Members(c combo.Combination, paired bool) []columns.Ref {
	if !paired {
		return append([]columns.Ref(nil), c...)
	}
	out := make([]columns.Ref, 0, 2*len(c))
	for _, r := range c {
		next, err := columns.Next(r.Label)
		if err != nil {
			next = columns.LabelOf(r.Index + 1)
		}
		out = append(out, r, columns.Ref{Label: next, Index: r.Index + 1})
	}
	return out
}

// Aggregate groups the rows of t by identity and the cells of c and counts
// positive and negative outcomes per group. Rows too narrow to hold every
// referenced column are skipped. Groups with no classified outcome are
// dropped. The result is sorted by identity, then member values.
func Aggregate(t table.Table, cfg Config, c combo.Combination) []OutputRow {
	refs := Members(c, cfg.IncludePaired)
	need := cfg.IdentityColumn
	if cfg.OutcomeColumn > need {
		need = cfg.OutcomeColumn
	}
	for _, r := range refs {
		if r.Index > need {
			need = r.Index
		}
	}

	buckets := make(map[string]*bucket)
	parts := make([]string, 0, len(refs)+1)
	for _, row := range t {
		if len(row) <= need {
			continue
		}
		parts = parts[:0]
		parts = append(parts, row[cfg.IdentityColumn])
		for _, r := range refs {
			parts = append(parts, row[r.Index])
		}
		key := encodeKey(parts)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{identity: parts[0], values: append([]string(nil), parts[1:]...)}
			buckets[key] = b
		}
		switch Classify(row[cfg.OutcomeColumn]) {
		case Positive:
			b.pos++
		case Negative:
			b.neg++
		}
	}

	out := make([]OutputRow, 0, len(buckets))
	for _, b := range buckets {
		total := b.pos + b.neg
		if total == 0 {
			continue
		}
		o := OutputRow{
			Identity: b.identity,
			Members:  make([]Member, len(refs)),
			Total:    total,
			Positive: b.pos,
			Negative: b.neg,
			Rate:     decimal.NewFromInt(int64(b.pos)).DivRound(decimal.NewFromInt(int64(total)), 2),
		}
		for i, r := range refs {
			v := b.values[i]
			if cfg.SumValues {
				o.Sum += ParseIntLoose(v)
			}
			o.Members[i] = Member{Label: r.Label, Value: pad(v, cfg.PadWidth)}
		}
		out = append(out, o)
	}
	SortRows(out)
	return out
}

// ProgressFunc is called after each combination completes.
type ProgressFunc func(done, total int, c combo.Combination)

// Run aggregates every combination in order and concatenates the results.
func Run(t table.Table, cfg Config, combos []combo.Combination, progress ProgressFunc) []OutputRow {
	var out []OutputRow
	for i, c := range combos {
		out = append(out, Aggregate(t, cfg, c)...)
		if progress != nil {
			progress(i+1, len(combos), c)
		}
	}
	return out
}

// SortRows orders rows by identity, then member labels and values. Cells
// that are both integers compare numerically.
func SortRows(rows []OutputRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareCells(a.Identity, b.Identity); c != 0 {
			return c < 0
		}
		n := len(a.Members)
		if len(b.Members) < n {
			n = len(b.Members)
		}
		for k := 0; k < n; k++ {
			if c := strings.Compare(a.Members[k].Label, b.Members[k].Label); c != 0 {
				return c < 0
			}
			if c := compareCells(a.Members[k].Value, b.Members[k].Value); c != 0 {
				return c < 0
			}
		}
		return len(a.Members) < len(b.Members)
	})
}

func compareCells(a, b string) int {
	x, errA := strconv.Atoi(strings.TrimSpace(a))
	y, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// encodeKey length-prefixes every part so no cell content can make two
// different tuples produce the same key.
func encodeKey(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(strconv.Itoa(len(p)))
		sb.WriteByte(':')
		sb.WriteString(p)
	}
	return sb.String()
}

func pad(v string, width int) string {
	if width <= 0 {
		return v
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	return fmt.Sprintf("%0*d", width, n)
}
