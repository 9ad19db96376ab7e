// Package prompt reads operator input from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// DateLayout is the accepted input form: 4-digit year, 2-digit month,
// 2-digit day, no separators.
const DateLayout = "20060102"

// ErrNoInput is returned when input ends before a valid date was entered.
var ErrNoInput = errors.New("no date entered")

// DatePrompter asks for calendar dates until a valid one is entered.
type DatePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewDatePrompter reads answers from in and writes prompts to out.
func NewDatePrompter(in io.Reader, out io.Writer) *DatePrompter {
	return &DatePrompter{in: bufio.NewScanner(in), out: out}
}

// Date prompts with label and returns the first valid date. Invalid input is
// reported and prompted again.
func (p *DatePrompter) Date(label string) (time.Time, error) {
	for {
		fmt.Fprintf(p.out, "%s (YYYYMMDD): ", label)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return time.Time{}, fmt.Errorf("read date: %w", err)
			}
			return time.Time{}, ErrNoInput
		}
		d, err := ParseDate(p.in.Text())
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(p.out, "Invalid format. Please use YYYYMMDD.")
	}
}

// ParseDate validates and parses a YYYYMMDD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYYMMDD", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("invalid date %q: want YYYYMMDD", s)
		}
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}
