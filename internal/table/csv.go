package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/utils"
)

type csvFormat struct {
	delim rune
	ext   string
}

func (f csvFormat) Name() string { return strings.TrimPrefix(f.ext, ".") }

func (f csvFormat) CanHandle(path string) bool { return hasExt(path, f.ext) }

func (f csvFormat) Read(path string, _ ReadOptions) (Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open csv", Path: path, Err: err}
	}
	defer fh.Close()
	r := csv.NewReader(fh)
	r.Comma = f.delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var out Table
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &IOError{Op: "parse csv", Path: path, Err: err}
		}
		if len(out) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		out = append(out, rec)
	}
	return out, nil
}

// Write emits every field quoted, doubling embedded quotes.
func (f csvFormat) Write(path string, t Table) error {
	var buf bytes.Buffer
	sep := string(f.delim)
	for _, row := range t {
		for i, cell := range row {
			if i > 0 {
				buf.WriteString(sep)
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return &IOError{Op: "write csv", Path: path, Err: err}
	}
	return nil
}
