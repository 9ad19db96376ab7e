package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDate_RepromptsUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := NewDatePrompter(strings.NewReader("2024-03-15\n20241340\n\n20240315\n"), &out)

	d, err := p.Date("Enter the Date of the Mobile Dental Event")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", d)
	}
	if n := strings.Count(out.String(), "Invalid format"); n != 3 {
		t.Errorf("expected 3 invalid-format messages, got %d in %q", n, out.String())
	}
	if !strings.HasPrefix(out.String(), "Enter the Date of the Mobile Dental Event (YYYYMMDD): ") {
		t.Errorf("unexpected prompt %q", out.String())
	}
}

func TestDate_EndOfInput(t *testing.T) {
	p := NewDatePrompter(strings.NewReader("bad\n"), &bytes.Buffer{})
	_, err := p.Date("Date")
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	valid := map[string]time.Time{
		"20240315":   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		" 20000229 ": time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range valid {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "2024315", "2024-03-15", "20230229", "2024031a", "202403150"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) expected error", in)
		}
	}
}
