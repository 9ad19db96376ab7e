package outreach

// DOBLayout is the compact date-of-birth form expected by the campaign tool.
const DOBLayout = "20060102"

// Header is the column header of the outreach file, in Row order.
var Header = []string{
	"Last Name",
	"First Name",
	"Middle Name",
	"Cell Phone",
	"Home Phone",
	"Work Phone",
	"Preferred Language",
	"Date of Birth",
	"Gender",
	"Person ID",
	"Email",
}

// Record is one contact-list row. Only the cell phone is populated from the
// source; home and work phone are carried as empty columns.
type Record struct {
	LastName          string `json:"last_name" parquet:"last_name"`
	FirstName         string `json:"first_name" parquet:"first_name"`
	MiddleName        string `json:"middle_name,omitempty" parquet:"middle_name"`
	CellPhone         string `json:"cell_phone" parquet:"cell_phone"`
	HomePhone         string `json:"home_phone,omitempty" parquet:"home_phone"`
	WorkPhone         string `json:"work_phone,omitempty" parquet:"work_phone"`
	PreferredLanguage string `json:"preferred_language,omitempty" parquet:"preferred_language"`
	DateOfBirth       string `json:"date_of_birth,omitempty" parquet:"date_of_birth"`
	Gender            string `json:"gender,omitempty" parquet:"gender"`
	PersonID          string `json:"person_id" parquet:"person_id"`
	Email             string `json:"email,omitempty" parquet:"email"`
}

// Row returns the record's fields in Header order.
func (r Record) Row() []string {
	return []string{
		r.LastName,
		r.FirstName,
		r.MiddleName,
		r.CellPhone,
		r.HomePhone,
		r.WorkPhone,
		r.PreferredLanguage,
		r.DateOfBirth,
		r.Gender,
		r.PersonID,
		r.Email,
	}
}
