package appointment

import (
	"errors"
	"fmt"
	"time"
)

// Column names produced by the appointment queries. The normalizer and the
// outreach deriver address fields by these names.
const (
	ColProvider       = "Provider Name"
	ColAppointment    = "Appointment Name"
	ColLocation       = "Location Name"
	ColAppointmentDay = "Appointment Date"
	ColBeginTime      = "Begin Time"
	ColKept           = "Kept Status?"
	ColFullName       = "Full Patient Name"
	ColLastName       = "Last Name"
	ColFirstName      = "First Name"
	ColMiddleName     = "Middle Name"
	ColMRN            = "MRN"
	ColDOB            = "DOB"
	ColPhone          = "Phone Number"
	ColEmail          = "Email"
	ColLanguage       = "Language"
	ColSex            = "Sex at Birth"
	ColWorkflowStatus = "workflow_status"
	ColCancel         = "cancel_ind"
	ColDelete         = "delete_ind"
)

// DateLayout is the calendar date form used in exports.
const DateLayout = "2006-01-02"

// ErrMissingField is matched by every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError reports a structural column that a stage needs but the
// record set does not carry and cannot derive.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Row is one raw query result row keyed by column name.
type Row map[string]interface{}

// ResultSet is a materialized query result with its column order.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Record is one canonical appointment row. Optional fields are nil when the
// column was absent or the value did not survive normalization. MRN is the
// normalized identity key and is empty when the patient has none.
type Record struct {
	ProviderName    *string    `json:"provider_name,omitempty"`
	AppointmentName *string    `json:"appointment_name,omitempty"`
	LocationName    *string    `json:"location_name,omitempty"`
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`
	BeginTime       *string    `json:"begin_time,omitempty"`
	KeptStatus      *string    `json:"kept_status,omitempty"`
	FullName        *string    `json:"full_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	FirstName       *string    `json:"first_name,omitempty"`
	MiddleName      *string    `json:"middle_name,omitempty"`
	MRN             string     `json:"mrn,omitempty"`
	DOB             *time.Time `json:"dob,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Language        *string    `json:"language,omitempty"`
	Sex             *string    `json:"sex,omitempty"`
	WorkflowStatus  *string    `json:"workflow_status,omitempty"`
	CancelInd       *string    `json:"cancel_ind,omitempty"`
	DeleteInd       *string    `json:"delete_ind,omitempty"`

	// Extra holds columns the normalizer does not interpret, unchanged.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Value returns the export cell value for a column. Dates render as
// YYYY-MM-DD; absent values are nil.
func (r *Record) Value(col string) interface{} {
	switch col {
	case ColProvider:
		return strVal(r.ProviderName)
	case ColAppointment:
		return strVal(r.AppointmentName)
	case ColLocation:
		return strVal(r.LocationName)
	case ColAppointmentDay:
		return dateVal(r.AppointmentDate)
	case ColBeginTime:
		return strVal(r.BeginTime)
	case ColKept:
		return strVal(r.KeptStatus)
	case ColFullName:
		return strVal(r.FullName)
	case ColLastName:
		return strVal(r.LastName)
	case ColFirstName:
		return strVal(r.FirstName)
	case ColMiddleName:
		return strVal(r.MiddleName)
	case ColMRN:
		if r.MRN == "" {
			return nil
		}
		return r.MRN
	case ColDOB:
		return dateVal(r.DOB)
	case ColPhone:
		return strVal(r.Phone)
	case ColEmail:
		return strVal(r.Email)
	case ColLanguage:
		return strVal(r.Language)
	case ColSex:
		return strVal(r.Sex)
	case ColWorkflowStatus:
		return strVal(r.WorkflowStatus)
	case ColCancel:
		return strVal(r.CancelInd)
	case ColDelete:
		return strVal(r.DeleteInd)
	}
	return r.Extra[col]
}

// RecordSet is a normalized result set. Columns keeps the query's column
// order, which drives both column presence checks and export layout.
type RecordSet struct {
	Columns []string
	Records []Record
}

// Has reports whether the originating query carried the column.
func (s RecordSet) Has(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (s RecordSet) Len() int { return len(s.Records) }

// Filter returns a set with the same columns holding the records for which
// keep returns true, in their original order.
func (s RecordSet) Filter(keep func(*Record) bool) RecordSet {
	out := RecordSet{Columns: s.Columns}
	for i := range s.Records {
		if keep(&s.Records[i]) {
			out.Records = append(out.Records, s.Records[i])
		}
	}
	return out
}

// MRNs returns the identity keys of the records in order, skipping records
// without one. Duplicates are kept.
func (s RecordSet) MRNs() []string {
	out := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		if r.MRN != "" {
			out = append(out, r.MRN)
		}
	}
	return out
}

func strVal(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func dateVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}
