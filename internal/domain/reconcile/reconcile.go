// Package reconcile classifies dental patients against their non-dental
// visit history using set algebra over normalized MRN keys.
package reconcile

import (
	"sort"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
)

// IdentitySet is a set of normalized MRN keys.
type IdentitySet map[string]struct{}

// NewIdentitySet builds a set from raw MRN strings. Each value is normalized
// first; absent and non-numeric MRNs are excluded.
func NewIdentitySet(mrns ...string) IdentitySet {
	s := make(IdentitySet, len(mrns))
	for _, m := range mrns {
		if key, ok := Key(m); ok {
			s[key] = struct{}{}
		}
	}
	return s
}

// FromRecords builds the identity set of a record set.
func FromRecords(set appointment.RecordSet) IdentitySet {
	return NewIdentitySet(set.MRNs()...)
}

// Key returns the set key for a raw MRN and whether it may enter a set.
func Key(mrn string) (string, bool) {
	key := appointment.NormalizeMRN(mrn)
	if key == "" {
		return "", false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return "", false
		}
	}
	return key, true
}

// Contains reports whether the MRN, once normalized, is a member.
func (s IdentitySet) Contains(mrn string) bool {
	key, ok := Key(mrn)
	if !ok {
		return false
	}
	_, found := s[key]
	return found
}

// Len returns the number of members.
func (s IdentitySet) Len() int { return len(s) }

// Intersect returns the members present in both s and other.
func (s IdentitySet) Intersect(other IdentitySet) IdentitySet {
	out := make(IdentitySet)
	for k := range s {
		if _, ok := other[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Difference returns the members of s absent from other.
func (s IdentitySet) Difference(other IdentitySet) IdentitySet {
	out := make(IdentitySet)
	for k := range s {
		if _, ok := other[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending string order, for display.
func (s IdentitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Result is the classification of dental patients.
//
// Both holds dental patients with any kept non-dental visit. Overdue is the
// part of Both without a kept non-dental visit inside the recent window.
// Dental patients with no medical identity at all appear in neither.
type Result struct {
	Both    IdentitySet
	Overdue IdentitySet
}

// Reconcile computes both as dental intersect allMedical and overdue as both
// minus recentMedical.
func Reconcile(dental, recentMedical, allMedical IdentitySet) Result {
	both := dental.Intersect(allMedical)
	return Result{
		Both:    both,
		Overdue: both.Difference(recentMedical),
	}
}

// Rows returns the records of set whose MRN belongs to ids, in their
// original order.
func Rows(set appointment.RecordSet, ids IdentitySet) appointment.RecordSet {
	return set.Filter(func(r *appointment.Record) bool {
		return ids.Contains(r.MRN)
	})
}
