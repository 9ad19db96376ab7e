package appointment

import "strings"

// ParseName splits a free-text full name into last, first and middle parts.
// Absent parts are nil.
//
// "Last, First Middle..." is taken as authoritative when a comma is present.
// Otherwise the name is read as "First Middle... Last", which misparses
// family-name-first conventions; a single token is treated as a last name.
func ParseName(full string) (last, first, middle *string) {
	full = strings.Join(strings.Fields(full), " ")
	if full == "" {
		return nil, nil, nil
	}

	if i := strings.Index(full, ","); i >= 0 {
		last = nonEmpty(strings.TrimSpace(full[:i]))
		rest := strings.Fields(full[i+1:])
		if len(rest) > 0 {
			first = &rest[0]
		}
		if len(rest) > 1 {
			m := strings.Join(rest[1:], " ")
			middle = &m
		}
		return last, first, middle
	}

	tokens := strings.Fields(full)
	if len(tokens) == 1 {
		return &tokens[0], nil, nil
	}
	first = &tokens[0]
	last = &tokens[len(tokens)-1]
	if len(tokens) > 2 {
		m := strings.Join(tokens[1:len(tokens)-1], " ")
		middle = &m
	}
	return last, first, middle
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
