// Package biorhythm computes the seven classic biorhythm cycles for a
// birth date and a target date, and fills them into a table.
package biorhythm

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
)

// Cycle is a named sine period in days.
type Cycle struct {
	Name string
	Days float64
}

// Cycles in output column order.
var Cycles = []Cycle{
	{"Emotional", 28},
	{"Physical", 23},
	{"Intellectual", 33},
	{"Spiritual", 53},
	{"Awareness", 48},
	{"Intuitive", 38},
	{"Aesthetic", 43},
}

// ColumnNames returns the cycle names in output order.
func ColumnNames() []string {
	out := make([]string, len(Cycles))
	for i, c := range Cycles {
		out[i] = c.Name
	}
	return out
}

// Compute returns round(sin(2π·days/cycle)·100) per cycle, where days is
// the number of whole days from birth to target.
func Compute(birth, target time.Time) []int {
	days := target.Sub(birth).Hours() / 24
	out := make([]int, len(Cycles))
	for i, c := range Cycles {
		out[i] = int(math.Round(math.Sin(2*math.Pi*days/c.Days) * 100))
	}
	return out
}

var layouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2/1/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
	"2006.01.02",
	"01.02.2006",
	"02.01.2006",
	"2006 01 02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts the layouts above, trying month-first before day-first
// for ambiguous slashed dates, and Excel serial day numbers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f < 2958466 {
		return excelEpoch.Add(time.Duration(math.Floor(f)) * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// ComputeCells parses both dates and returns the cycle values as strings;
// if either date fails to parse every value is "0".
func ComputeCells(birth, target string) []string {
	out := make([]string, len(Cycles))
	b, ok1 := ParseDate(birth)
	t, ok2 := ParseDate(target)
	if !ok1 || !ok2 {
		for i := range out {
			out[i] = "0"
		}
		return out
	}
	for i, v := range Compute(b, t) {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Apply returns header and rows with the cycle columns filled. Existing
// columns named after a cycle are overwritten in place; missing ones are
// appended to the header. Rows lacking either date column are left as is.
func Apply(header []string, rows table.Table, dobIdx, dateIdx int) ([]string, table.Table) {
	h := append([]string(nil), header...)
	pos := make([]int, len(Cycles))
	for i, c := range Cycles {
		pos[i] = -1
		for j, name := range h {
			if strings.EqualFold(strings.TrimSpace(name), c.Name) {
				pos[i] = j
				break
			}
		}
		if pos[i] < 0 {
			pos[i] = len(h)
			h = append(h, c.Name)
		}
	}
	out := rows.Clone()
	for r, row := range out {
		if dobIdx < 0 || dateIdx < 0 || dobIdx >= len(row) || dateIdx >= len(row) {
			continue
		}
		vals := ComputeCells(row[dobIdx], row[dateIdx])
		for i, p := range pos {
			for len(row) <= p {
				row = append(row, "")
			}
			row[p] = vals[i]
		}
		out[r] = row
	}
	return h, out
}

// OutputPath is "<base>_with_biorhythms<ext>" beside input.
func OutputPath(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".csv" {
		ext = ".xlsx"
	}
	return filepath.Join(filepath.Dir(input), utils.BaseName(input)+"_with_biorhythms"+ext)
}
