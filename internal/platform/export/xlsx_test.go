package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "MRN_Comparison_2024-03-15.xlsx")
	sheets := []Sheet{
		{Name: "Seen in Both", Table: Table{
			Columns: []string{"MRN", "Full Patient Name"},
			Rows: [][]interface{}{
				{"123", "Smith, Ana"},
				{"456", nil},
			},
		}},
		{Name: "Seen in Dental, Not Medical 6mo", Table: Table{
			Columns: []string{"MRN", "Full Patient Name"},
		}},
	}

	if err := NewXLSXWriter().WriteWorkbook(path, sheets); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) != 2 || list[0] != "Seen in Both" || list[1] != "Seen in Dental, Not Medical 6mo" {
		t.Fatalf("sheets = %v", list)
	}

	checks := map[string]string{"A1": "MRN", "B1": "Full Patient Name", "A2": "123", "B2": "Smith, Ana", "A3": "456", "B3": ""}
	for cell, want := range checks {
		got, err := f.GetCellValue("Seen in Both", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	width, err := f.GetColWidth("Seen in Both", "B")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width != 19 {
		t.Errorf("column B width = %v, want 19", width)
	}

	header, err := f.GetCellValue("Seen in Dental, Not Medical 6mo", "A1")
	if err != nil || header != "MRN" {
		t.Errorf("expected header on empty sheet, got %q (%v)", header, err)
	}
}

func TestWriteWorkbook_NoSheets(t *testing.T) {
	err := NewXLSXWriter().WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	if err == nil {
		t.Fatal("expected error for a workbook without sheets")
	}
}

func TestColumnWidths(t *testing.T) {
	table := Table{
		Columns: []string{"ID", "Description", "Notes"},
		Rows: [][]interface{}{
			{1, "short", strings.Repeat("x", 80)},
			{22, "a somewhat longer description", nil},
		},
	}
	got := ColumnWidths(table)
	want := []float64{10, 31, 40}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("width[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTableName(t *testing.T) {
	tests := map[string]string{
		"Seen in Both":                    "SeeninBoth",
		"Seen in Dental, Not Medical 6mo": "SeeninDentalNotMedical6mo",
		"Dental Bookings":                 "DentalBookings",
		"2024 Report":                     "T_2024Report",
		"":                                "T_",
	}
	for in, want := range tests {
		if got := TableName(in); got != want {
			t.Errorf("TableName(%q) = %q, want %q", in, got, want)
		}
	}
}
