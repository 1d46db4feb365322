package table

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type xlsxFormat struct{}

func (xlsxFormat) Name() string { return "xlsx" }

func (xlsxFormat) CanHandle(path string) bool { return hasExt(path, ".xlsx") }

// Read returns raw cell values so numbers and dates keep their stored form
// (a date arrives as its serial number).
func (xlsxFormat) Read(path string, opt ReadOptions) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &IOError{Op: "open xlsx", Path: path, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if opt.Sheet != "" {
		sheet = ""
		for _, name := range f.GetSheetList() {
			if strings.EqualFold(name, opt.Sheet) {
				sheet = name
				break
			}
		}
		if sheet == "" {
			return nil, &IOError{Op: "open xlsx", Path: path, Err: fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
				opt.Sheet, filepath.Base(path), strings.Join(f.GetSheetList(), ", "))}
		}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &IOError{Op: "read xlsx", Path: path, Err: err}
	}
	return Table(rows), nil
}

// Write places the table at A1 of a fresh single-sheet workbook.
func (xlsxFormat) Write(path string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range t {
		vals := make([]interface{}, len(row))
		for c, s := range row {
			vals[c] = cellValue(s)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return &IOError{Op: "write xlsx", Path: path, Err: err}
		}
		if err := f.SetSheetRow(defaultSheet, cell, &vals); err != nil {
			return &IOError{Op: "write xlsx", Path: path, Err: err}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return &IOError{Op: "write xlsx", Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return &IOError{Op: "write xlsx", Path: path, Err: err}
	}
	return nil
}

// maxExactDigits is the longest integer a spreadsheet stores without
// rounding (IEEE double, 15 significant digits).
const maxExactDigits = 15

// cellValue stores canonical integers as numbers and everything else as
// text, so "007", "0.50" and long ids survive unchanged.
func cellValue(s string) interface{} {
	if len(strings.TrimPrefix(s, "-")) > maxExactDigits {
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return n
	}
	return s
}
