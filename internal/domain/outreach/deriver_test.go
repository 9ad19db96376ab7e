package outreach

import (
	"errors"
	"testing"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
)

var fullNameColumns = []string{
	appointment.ColLocation,
	appointment.ColFullName,
	appointment.ColMRN,
	appointment.ColDOB,
	appointment.ColPhone,
	appointment.ColEmail,
	appointment.ColLanguage,
	appointment.ColSex,
}

func makeSet(columns []string, rows ...appointment.Row) appointment.RecordSet {
	return appointment.Normalize(appointment.ResultSet{Columns: columns, Rows: rows})
}

func TestDerive_ProjectsRecord(t *testing.T) {
	set := makeSet(fullNameColumns, appointment.Row{
		appointment.ColLocation: "Goleta Dental",
		appointment.ColFullName: "Smith, John Michael",
		appointment.ColMRN:      "000123",
		appointment.ColDOB:      "1980-05-01",
		appointment.ColPhone:    "(805) 555-0100",
		appointment.ColEmail:    "john@example.com",
		appointment.ColLanguage: "Spanish; Castilian",
		appointment.ColSex:      "M",
	})

	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	got := out[0]
	want := Record{
		LastName:          "Smith",
		FirstName:         "John",
		MiddleName:        "Michael",
		CellPhone:         "(805) 555-0100",
		PreferredLanguage: "Spanish",
		DateOfBirth:       "19800501",
		Gender:            "M",
		PersonID:          "123",
		Email:             "john@example.com",
	}
	if got != want {
		t.Errorf("record = %+v\nwant     %+v", got, want)
	}
}

func TestDerive_DedupKeepsFirst(t *testing.T) {
	set := makeSet(fullNameColumns,
		appointment.Row{appointment.ColFullName: "Ana Ruiz", appointment.ColMRN: "42", appointment.ColPhone: "805-555-0001"},
		appointment.Row{appointment.ColFullName: "Ana Ruiz", appointment.ColMRN: "0042", appointment.ColPhone: "805-555-0002"},
	)
	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(out))
	}
	if out[0].CellPhone != "805-555-0001" {
		t.Errorf("expected first-seen row to win, got phone %s", out[0].CellPhone)
	}
}

func TestDerive_DedupRunsBeforeContactFilter(t *testing.T) {
	set := makeSet(fullNameColumns,
		appointment.Row{appointment.ColFullName: "Ana Ruiz", appointment.ColMRN: "42", appointment.ColPhone: "   "},
		appointment.Row{appointment.ColFullName: "Ana Ruiz", appointment.ColMRN: "42", appointment.ColPhone: "805-555-0002"},
	)
	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected the first-seen row without phone to win and be dropped, got %+v", out)
	}
}

func TestDerive_ContactFilter(t *testing.T) {
	set := makeSet(fullNameColumns,
		appointment.Row{appointment.ColFullName: "Blank Phone", appointment.ColMRN: "1", appointment.ColPhone: "   "},
		appointment.Row{appointment.ColFullName: "Has Phone", appointment.ColMRN: "2", appointment.ColPhone: "(805) 555-0100"},
		appointment.Row{appointment.ColFullName: "No Phone", appointment.ColMRN: "3"},
	)

	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].PersonID != "2" {
		t.Fatalf("expected only person 2, got %+v", out)
	}
	if out[0].CellPhone != "(805) 555-0100" {
		t.Errorf("phone = %q", out[0].CellPhone)
	}

	out, err = Derive(set, Options{DigitsOnlyPhone: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].CellPhone != "8055550100" {
		t.Errorf("expected digits-only phone 8055550100, got %+v", out)
	}
}

func TestDerive_DigitsOnlyDropsPunctuationOnlyPhone(t *testing.T) {
	set := makeSet(fullNameColumns,
		appointment.Row{appointment.ColFullName: "Dash Only", appointment.ColMRN: "1", appointment.ColPhone: "--"},
	)
	out, _ := Derive(set, Options{DigitsOnlyPhone: true})
	if len(out) != 0 {
		t.Errorf("expected punctuation-only phone to be dropped, got %+v", out)
	}
	out, _ = Derive(set, Options{})
	if len(out) != 1 {
		t.Errorf("expected punctuation-only phone to be kept without digits-only mode, got %+v", out)
	}
}

func TestDerive_LocationFilter(t *testing.T) {
	set := makeSet(fullNameColumns,
		appointment.Row{appointment.ColLocation: "Downtown Dental", appointment.ColFullName: "A B", appointment.ColMRN: "1", appointment.ColPhone: "1"},
		appointment.Row{appointment.ColLocation: "GOLETA DENTAL CLINIC", appointment.ColFullName: "C D", appointment.ColMRN: "2", appointment.ColPhone: "2"},
		appointment.Row{appointment.ColFullName: "No Location", appointment.ColMRN: "3", appointment.ColPhone: "3"},
	)
	out, err := Derive(set, Options{LocationFilter: "Goleta Dental"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].PersonID != "2" {
		t.Errorf("expected only the Goleta record, got %+v", out)
	}
}

func TestDerive_LocationFilterNoMatchIsEmpty(t *testing.T) {
	set := makeSet([]string{appointment.ColLocation, appointment.ColMRN},
		appointment.Row{appointment.ColLocation: "Downtown Dental", appointment.ColMRN: "1"},
	)
	out, err := Derive(set, Options{LocationFilter: "Goleta Dental"})
	if err != nil {
		t.Fatalf("expected no error for an empty result, got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty result, got %+v", out)
	}
}

func TestDerive_SplitNameColumns(t *testing.T) {
	cols := []string{appointment.ColLastName, appointment.ColFirstName, appointment.ColMiddleName, appointment.ColMRN, appointment.ColPhone}
	set := makeSet(cols, appointment.Row{
		appointment.ColLastName:   "Lee",
		appointment.ColFirstName:  "Bob",
		appointment.ColMiddleName: "J",
		appointment.ColMRN:        "9",
		appointment.ColPhone:      "555",
	})
	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].LastName != "Lee" || out[0].FirstName != "Bob" || out[0].MiddleName != "J" {
		t.Errorf("unexpected names %+v", out[0])
	}
}

func TestDerive_MissingNameFields(t *testing.T) {
	set := makeSet([]string{appointment.ColMRN, appointment.ColPhone},
		appointment.Row{appointment.ColMRN: "1", appointment.ColPhone: "555"},
	)
	_, err := Derive(set, Options{})
	if !errors.Is(err, appointment.ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestDerive_UnparsableDOB(t *testing.T) {
	set := makeSet(fullNameColumns, appointment.Row{
		appointment.ColFullName: "A B", appointment.ColMRN: "1", appointment.ColPhone: "5", appointment.ColDOB: "garbage",
	})
	out, err := Derive(set, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].DateOfBirth != "" {
		t.Errorf("expected empty DOB, got %q", out[0].DateOfBirth)
	}
}

func TestRemapLanguage(t *testing.T) {
	tests := map[string]string{
		"Spanish; Castilian":   "Spanish",
		"SPANISH; CASTILIAN  ": "Spanish",
		"es-MX":                "Spanish",
		"English":              "English",
		" Vietnamese ":         "Vietnamese",
		"":                     "",
	}
	for in, want := range tests {
		if got := RemapLanguage(in); got != want {
			t.Errorf("RemapLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordRowMatchesHeader(t *testing.T) {
	r := Record{LastName: "L", PersonID: "P", Email: "E"}
	row := r.Row()
	if len(row) != len(Header) {
		t.Fatalf("row has %d fields, header %d", len(row), len(Header))
	}
	if row[0] != "L" || row[9] != "P" || row[10] != "E" {
		t.Errorf("unexpected row %v", row)
	}
}
