// Package rangemap buckets integer cells into "lo-hi" ranges read from a
// plain text file, one range per line.
package rangemap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
)

// ErrBadRange is returned for a line that is not "lo-hi".
var ErrBadRange = errors.New("malformed range")

// Range is an inclusive integer interval with its source text.
type Range struct {
	Lo, Hi int
	Text   string
}

// Contains reports whether v lies in [Lo, Hi].
func (r Range) Contains(v int) bool { return v >= r.Lo && v <= r.Hi }

// ParseRange parses "lo-hi". A leading minus on lo is allowed.
func ParseRange(s string) (Range, error) {
	t := strings.TrimSpace(s)
	cut := strings.Index(t[min(1, len(t)):], "-")
	if cut < 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	cut += min(1, len(t))
	lo, err1 := strconv.Atoi(strings.TrimSpace(t[:cut]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(t[cut+1:]))
	if err1 != nil || err2 != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	if lo > hi {
		return Range{}, fmt.Errorf("%w: %q has lo > hi", ErrBadRange, s)
	}
	return Range{Lo: lo, Hi: hi, Text: t}, nil
}

// ParseRanges reads one range per non-blank line.
func ParseRanges(r io.Reader) ([]Range, error) {
	var out []Range
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		rg, err := ParseRange(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rg)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ranges: %w", err)
	}
	return out, nil
}

// LoadRanges reads a ranges file from disk.
func LoadRanges(path string) ([]Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &table.IOError{Op: "open ranges", Path: path, Err: err}
	}
	defer f.Close()
	return ParseRanges(f)
}

// MapValue returns the text of the first range containing the integer in v.
// Non-integers and integers outside every range come back unchanged.
func MapValue(v string, ranges []Range) string {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	for _, r := range ranges {
		if r.Contains(n) {
			return r.Text
		}
	}
	return v
}

// Apply returns a copy of t with the cells at indices bucketed.
func Apply(t table.Table, indices []int, ranges []Range) table.Table {
	out := t.Clone()
	for _, row := range out {
		for _, i := range indices {
			if i >= 0 && i < len(row) {
				row[i] = MapValue(row[i], ranges)
			}
		}
	}
	return out
}

// OutputPath builds "<dir>/<base>_<LABELS>_Grouped<ext>"; ext defaults to ".xlsx".
func OutputPath(input string, labels []string, ext string) string {
	if ext == "" {
		ext = ".xlsx"
	}
	name := fmt.Sprintf("%s_%s_Grouped%s", utils.BaseName(input), strings.Join(labels, ""), ext)
	return filepath.Join(filepath.Dir(input), name)
}

// Resolve turns labels into indices, rejecting labels outside set.
func Resolve(set *columns.Set, labels []string) ([]int, error) {
	out := make([]int, 0, len(labels))
	for _, l := range labels {
		idx, err := set.Resolve(l)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}
