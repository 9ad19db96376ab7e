package appointment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the textual date forms accepted from drivers that hand
// back dates as strings.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"20060102",
	"01/02/2006",
	"1/2/2006",
}

// Normalize converts every row of a result set into a canonical record. The
// column order is preserved. Malformed values degrade to absent values; the
// function never fails.
func Normalize(rs ResultSet) RecordSet {
	out := RecordSet{
		Columns: append([]string(nil), rs.Columns...),
		Records: make([]Record, 0, len(rs.Rows)),
	}
	for _, row := range rs.Rows {
		out.Records = append(out.Records, NormalizeRow(row))
	}
	return out
}

// NormalizeRow canonicalizes a single raw row. Columns missing from the row
// leave the corresponding field nil.
func NormalizeRow(row Row) Record {
	var r Record
	for col, v := range row {
		switch col {
		case ColProvider:
			r.ProviderName = text(v)
		case ColAppointment:
			r.AppointmentName = text(v)
		case ColLocation:
			r.LocationName = text(v)
		case ColAppointmentDay:
			r.AppointmentDate = ParseDate(v)
		case ColBeginTime:
			r.BeginTime = text(v)
		case ColKept:
			r.KeptStatus = text(v)
		case ColFullName:
			r.FullName = text(v)
		case ColLastName:
			r.LastName = text(v)
		case ColFirstName:
			r.FirstName = text(v)
		case ColMiddleName:
			r.MiddleName = text(v)
		case ColMRN:
			r.MRN = NormalizeMRN(v)
		case ColDOB:
			r.DOB = ParseDate(v)
		case ColPhone:
			r.Phone = contact(v)
		case ColEmail:
			r.Email = contact(v)
		case ColLanguage:
			r.Language = text(v)
		case ColSex:
			r.Sex = text(v)
		case ColWorkflowStatus:
			r.WorkflowStatus = text(v)
		case ColCancel:
			r.CancelInd = text(v)
		case ColDelete:
			r.DeleteInd = text(v)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]interface{})
			}
			r.Extra[col] = v
		}
	}
	return r
}

// NormalizeMRN returns the identity key for a raw MRN value: its base-10
// string form with surrounding whitespace and leading zeros removed. An
// empty result means the record has no MRN. The value is never converted to
// an integer type, so the remainder of a short zero-padded MRN survives as
// text. Applying NormalizeMRN to its own output returns the same key.
func NormalizeMRN(v interface{}) string {
	s, ok := stringify(v)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if isNullLiteral(s) {
		return ""
	}
	return strings.TrimLeft(s, "0")
}

// ParseDate coerces a driver value into a calendar date at UTC midnight.
// Unparsable or empty values return nil.
func ParseDate(v interface{}) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case *time.Time:
		if t == nil {
			return nil
		}
		return ParseDate(*t)
	}

	s, ok := stringify(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if isNullLiteral(s) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// text trims a string value; empty values are absent.
func text(v interface{}) *string {
	s, ok := stringify(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// contact trims a phone or email value and treats the textual null forms
// left behind by upstream exports as absent.
func contact(v interface{}) *string {
	s := text(v)
	if s == nil || isNullLiteral(*s) {
		return nil
	}
	return s
}

func isNullLiteral(s string) bool {
	switch s {
	case "", "None", "nan", "NaN", "<NA>", "NULL":
		return true
	}
	return false
}

// stringify renders scalar driver values as text. Integral floats print
// without a fractional part so numeric MRN columns keep their digits.
func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case []byte:
		return string(t), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	}
	return fmt.Sprint(v), true
}

func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
