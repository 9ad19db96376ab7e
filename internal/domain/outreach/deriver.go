// Package outreach projects canonical appointment records into the contact
// list used by follow-up campaigns.
package outreach

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
)

// languageVocabulary collapses source language labels onto campaign labels.
// Keys are case-folded.
var languageVocabulary = map[string]string{
	"spanish; castilian": "Spanish",
	"spanish (mexico)":   "Spanish",
	"spanish (us)":       "Spanish",
	"castilian":          "Spanish",
	"es":                 "Spanish",
	"es-us":              "Spanish",
	"es-mx":              "Spanish",
}

// Options control the derivation.
type Options struct {
	// LocationFilter keeps records whose location name contains it, ignoring
	// case. Empty keeps every record.
	LocationFilter string
	// DigitsOnlyPhone strips every non-digit from the cell phone.
	DigitsOnlyPhone bool
}

// Derive builds the outreach list from a record set. The steps run in a
// fixed order: location filter, language remap, name split, DOB format,
// keep-first deduplication by person identifier, contact filter. The result
// keeps the incoming row order. An empty result is not an error.
func Derive(set appointment.RecordSet, opts Options) ([]Record, error) {
	rows := filterLocation(set.Records, opts.LocationFilter)
	if len(rows) == 0 {
		return nil, nil
	}

	names, err := nameSource(set)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		rec := Record{
			PreferredLanguage: RemapLanguage(str(r.Language)),
			Gender:            str(r.Sex),
			PersonID:          r.MRN,
			Email:             str(r.Email),
			CellPhone:         str(r.Phone),
		}
		rec.LastName, rec.FirstName, rec.MiddleName = names(r)
		if r.DOB != nil {
			rec.DateOfBirth = r.DOB.Format(DOBLayout)
		}
		out = append(out, rec)
	}

	out = dedupe(out)
	return filterContact(out, opts.DigitsOnlyPhone), nil
}

// RemapLanguage maps a language label through the controlled vocabulary.
// Labels outside the vocabulary pass through trimmed.
func RemapLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if mapped, ok := languageVocabulary[cases.Fold().String(lang)]; ok {
		return mapped
	}
	return lang
}

// MatchesLocation reports whether location contains filter, ignoring case.
func MatchesLocation(location, filter string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(location), fold.String(filter))
}

func filterLocation(records []appointment.Record, filter string) []appointment.Record {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return records
	}
	var out []appointment.Record
	for _, r := range records {
		if r.LocationName != nil && MatchesLocation(*r.LocationName, filter) {
			out = append(out, r)
		}
	}
	return out
}

type nameFunc func(r *appointment.Record) (last, first, middle string)

// nameSource picks how names are read for the whole set: split columns when
// the query carried them, otherwise the combined full name.
func nameSource(set appointment.RecordSet) (nameFunc, error) {
	switch {
	case set.Has(appointment.ColLastName) || set.Has(appointment.ColFirstName):
		return func(r *appointment.Record) (string, string, string) {
			return str(r.LastName), str(r.FirstName), str(r.MiddleName)
		}, nil
	case set.Has(appointment.ColFullName):
		return func(r *appointment.Record) (string, string, string) {
			last, first, middle := appointment.ParseName(str(r.FullName))
			return str(last), str(first), str(middle)
		}, nil
	}
	return nil, &appointment.MissingFieldError{Field: "patient name (" +
		appointment.ColFullName + " or " + appointment.ColLastName + "/" + appointment.ColFirstName + ")"}
}

// dedupe keeps the first record for each person identifier. Records without
// an identifier share the empty key.
func dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		if _, dup := seen[r.PersonID]; dup {
			continue
		}
		seen[r.PersonID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func filterContact(records []Record, digitsOnly bool) []Record {
	out := records[:0]
	for _, r := range records {
		phone := strings.TrimSpace(r.CellPhone)
		if digitsOnly {
			phone = digits(phone)
		}
		if phone == "" {
			continue
		}
		r.CellPhone = phone
		out = append(out, r)
	}
	return out
}

func digits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
