// Package export writes report workbooks and outreach files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// TableStyle is the banded table style applied to every sheet.
const TableStyle = "TableStyleMedium9"

const (
	minColWidth = 10
	maxColWidth = 40
)

// Table is a header plus data rows. Nil cells are written empty.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// Sheet names one table in a workbook.
type Sheet struct {
	Name  string
	Table Table
}

// XLSXWriter writes workbooks with one formatted table per sheet.
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

// WriteWorkbook writes sheets in order to path, creating parent directories.
// Each sheet holding data rows is formatted as a striped table with column
// widths sized to content.
func (w *XLSXWriter) WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return fmt.Errorf("name sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh); err != nil {
			return fmt.Errorf("sheet %q: %w", sh.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet) error {
	header := make([]interface{}, len(sh.Table.Columns))
	for i, c := range sh.Table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range sh.Table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := append([]interface{}(nil), row...)
		if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(sh.Table.Columns) == 0 {
		return nil
	}
	if len(sh.Table.Rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sh.Table.Columns), len(sh.Table.Rows)+1)
		if err != nil {
			return err
		}
		stripes := true
		if err := f.AddTable(sh.Name, &excelize.Table{
			Range:          "A1:" + last,
			Name:           TableName(sh.Name),
			StyleName:      TableStyle,
			ShowRowStripes: &stripes,
		}); err != nil {
			return fmt.Errorf("add table: %w", err)
		}
	}

	for i, width := range ColumnWidths(sh.Table) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}
	return nil
}

// ColumnWidths sizes each column to its longest rendered cell plus two,
// clamped to [10, 40].
func ColumnWidths(t Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		longest := utf8.RuneCountInString(c)
		for _, row := range t.Rows {
			if i >= len(row) || row[i] == nil {
				continue
			}
			if n := utf8.RuneCountInString(fmt.Sprint(row[i])); n > longest {
				longest = n
			}
		}
		w := longest + 2
		if w > maxColWidth {
			w = maxColWidth
		}
		if w < minColWidth {
			w = minColWidth
		}
		widths[i] = float64(w)
	}
	return widths
}

// TableName derives an Excel table name from a sheet name by dropping every
// character a table name may not contain.
func TableName(sheet string) string {
	out := make([]rune, 0, len(sheet))
	for _, r := range sheet {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			out = append(out, r)
		}
	}
	if len(out) == 0 || !(unicode.IsLetter(out[0]) || out[0] == '_') {
		out = append([]rune("T_"), out...)
	}
	return string(out)
}
