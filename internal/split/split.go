// Package split partitions a table into one table per distinct value of a
// column.
package split

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/KaramelBytes/combotally-cli/internal/utils"
)

// ErrColumnOutOfRange is returned when the split column lies beyond the
// first row.
var ErrColumnOutOfRange = errors.New("column exceeds available columns")

// Part is the rows sharing one value of the split column.
type Part struct {
	Value string
	Rows  table.Table
}

// ByColumn groups rows by the cell at index. Parts are ordered by value and
// keep input row order. Rows too short to have the column are dropped.
func ByColumn(t table.Table, index int) ([]Part, error) {
	if len(t) == 0 {
		return nil, nil
	}
	if index < 0 || index >= len(t[0]) {
		return nil, fmt.Errorf("%w: index %d, first row has %d", ErrColumnOutOfRange, index, len(t[0]))
	}
	groups := map[string]table.Table{}
	for _, row := range t {
		if index >= len(row) {
			continue
		}
		groups[row[index]] = append(groups[row[index]], row)
	}
	out := make([]Part, 0, len(groups))
	for v, rows := range groups {
		out = append(out, Part{Value: v, Rows: rows})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

// FileName builds "split_<LABEL>_<value><ext>" with separators in the value
// replaced.
func FileName(label, value, ext string) string {
	return fmt.Sprintf("split_%s_%s%s", label, utils.SanitizeFilePart(value), ext)
}

// OutputDir is the "outputs" folder beside input.
func OutputDir(input string) string {
	return filepath.Join(filepath.Dir(input), "outputs")
}

// Write stores every part under dir, prefixing header when non-nil, and
// returns the written paths. Values that sanitize to the same name get a
// numeric suffix instead of overwriting each other.
func Write(parts []Part, header []string, dir, label, ext string) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, &table.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	used := map[string]bool{}
	var written []string
	for _, p := range parts {
		dest := utils.UniquePath(filepath.Join(dir, FileName(label, p.Value, ext)), used)
		if err := table.WriteFile(dest, table.WithHeader(header, p.Rows)); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}
