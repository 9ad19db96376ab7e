package appointment

import (
	"context"
	"time"
)

// QueryDateLayout is the stored form of appointment dates (char(8) YYYYMMDD).
const QueryDateLayout = "20060102"

// Source executes the appointment queries against the practice management
// store. Implementations return the full result set; an empty set is not an
// error.
type Source interface {
	// DentalAppointments returns the non-cancelled appointments on eventDate at
	// locations whose name contains locationPattern.
	DentalAppointments(ctx context.Context, eventDate time.Time, locationPattern string) (ResultSet, error)
	// KeptMedicalMRNs returns the distinct MRNs with a kept appointment at a
	// location whose name does not contain locationPattern. When since is
	// non-nil only appointments dated strictly after it count.
	KeptMedicalMRNs(ctx context.Context, locationPattern string, since *time.Time) (ResultSet, error)
}
