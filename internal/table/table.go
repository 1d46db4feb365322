// Package table reads and writes row grids from CSV and XLSX files.
//
// A Table is an ordered list of rows, each an ordered list of cell strings.
// Rows may have different widths; callers that need a cell beyond a row's
// width get "" from Cell. Interpretation of cell contents (numbers, dates)
// happens in the consuming package, never here.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is an in-memory row grid.
type Table [][]string

// Data is what ReadFile returns: the data rows and, when requested, the
// header row split off the top.
type Data struct {
	Header []string
	Rows   Table
}

// ReadOptions tunes ReadFile.
type ReadOptions struct {
	// HeaderRow treats the first row as a header instead of data.
	HeaderRow bool
	// Sheet selects an XLSX sheet by name; empty means the active sheet.
	Sheet string
}

// ErrUnsupportedFormat is returned for file extensions no format handles.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// IOError reports a failure to read or write a file at the adapter boundary.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Format is a file format implementation.
type Format interface {
	Name() string
	CanHandle(path string) bool
	Read(path string, opt ReadOptions) (Table, error)
	Write(path string, t Table) error
}

var registry []Format

// Register adds a format implementation to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func init() {
	Register(csvFormat{delim: ',', ext: ".csv"})
	Register(csvFormat{delim: '\t', ext: ".tsv"})
	Register(xlsxFormat{})
}

// FormatFor returns the registered format for path's extension.
func FormatFor(path string) (Format, error) {
	for _, f := range registry {
		if f.CanHandle(path) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Supported reports whether path has a readable extension and is not an
// office lock file ("~$report.xlsx").
func Supported(path string) bool {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return false
	}
	_, err := FormatFor(path)
	return err == nil
}

// ReadFile loads path with the format matching its extension.
func ReadFile(path string, opt ReadOptions) (*Data, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	rows, err := f.Read(path, opt)
	if err != nil {
		return nil, err
	}
	d := &Data{Rows: rows}
	if opt.HeaderRow && len(rows) > 0 {
		d.Header = rows[0]
		d.Rows = rows[1:]
	}
	return d, nil
}

// WriteFile writes t to path with the format matching its extension.
func WriteFile(path string, t Table) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	return f.Write(path, t)
}

// Cell returns row[i] or "" when i is out of range.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Clone deep-copies a table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// MaxWidth returns the width of the widest row.
func (t Table) MaxWidth() int {
	w := 0
	for _, r := range t {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// WithHeader prepends header to rows, returning a new table.
func WithHeader(header []string, rows Table) Table {
	if header == nil {
		return rows
	}
	out := make(Table, 0, len(rows)+1)
	out = append(out, header)
	return append(out, rows...)
}

func hasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
