// Package report lays grouping results out as a fixed-width table.
package report

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/combotally-cli/internal/grouping"
	"github.com/KaramelBytes/combotally-cli/internal/table"
)

// Trailing column labels.
const (
	ColCount    = "Count"
	ColTotal    = "Total"
	ColWinTotal = "Win Total"
	ColRate     = "Win% Over"
)

// Layout controls the identity header and optional columns.
type Layout struct {
	IdentityLabel string
	// Sum adds the Count column carrying the sum of member values.
	Sum bool
}

// DefaultLayout matches the daily player sheets.
func DefaultLayout() Layout {
	return Layout{IdentityLabel: "Player"}
}

// Header returns the header row for size member pairs.
func Header(size int, l Layout) []string {
	id := l.IdentityLabel
	if id == "" {
		id = "Player"
	}
	h := make([]string, 0, 1+2*size+4)
	h = append(h, id)
	for i := 1; i <= size; i++ {
		h = append(h, fmt.Sprintf("Col_%d", i), fmt.Sprintf("Val_%d", i))
	}
	if l.Sum {
		h = append(h, ColCount)
	}
	return append(h, ColTotal, ColWinTotal, ColRate)
}

// TrailingWidth is the number of summary cells after the member pairs.
func TrailingWidth(l Layout) int {
	if l.Sum {
		return 4
	}
	return 3
}

// Assemble renders rows under a header for size member pairs. Every row
// has the header's width; rows with fewer members leave the gap empty.
func Assemble(rows []grouping.OutputRow, size int, l Layout) table.Table {
	header := Header(size, l)
	out := make(table.Table, 0, len(rows)+1)
	out = append(out, header)
	for _, r := range rows {
		line := make([]string, len(header))
		line[0] = r.Identity
		for i := 0; i < size && i < len(r.Members); i++ {
			line[1+2*i] = r.Members[i].Label
			line[2+2*i] = r.Members[i].Value
		}
		k := 1 + 2*size
		if l.Sum {
			line[k] = strconv.Itoa(r.Sum)
			k++
		}
		line[k] = strconv.Itoa(r.Total)
		line[k+1] = strconv.Itoa(r.Positive)
		line[k+2] = r.Rate.StringFixed(2)
		out = append(out, line)
	}
	return out
}
