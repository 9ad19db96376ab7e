package pipeline

// Target names one output branch of a run.
type Target string

const (
	TargetComparison      Target = "comparison"
	TargetBookings        Target = "bookings"
	TargetMedical         Target = "medical"
	TargetOutreachCSV     Target = "outreach-csv"
	TargetOutreachParquet Target = "outreach-parquet"
)

// Sheet names of the generated workbooks.
const (
	SheetSeenInBoth    = "Seen in Both"
	SheetOverdue       = "Seen in Dental, Not Medical 6mo"
	SheetBookings      = "Dental Bookings"
	SheetRecentMedical = "Kept Medical"
)

// DefaultWindowDays is the recent-visit window used when none is configured.
const DefaultWindowDays = 182

const (
	outreachCSVExt     = "csv"
	outreachParquetExt = "parquet"
)

// Config selects what a run produces and where. One configuration covers
// every site and campaign variant.
type Config struct {
	ReportDir             string
	OutreachDir           string
	DentalLocationPattern string
	LocationFilter        string
	CampaignName          string
	DigitsOnlyPhone       bool
	Targets               []Target
	RecentWindowDays      int
	ComparisonPrefix      string
	BookingsPrefix        string
	MedicalPrefix         string
}

func (c Config) windowDays() int {
	if c.RecentWindowDays <= 0 {
		return DefaultWindowDays
	}
	return c.RecentWindowDays
}

func (c Config) has(t Target) bool {
	for _, x := range c.Targets {
		if x == t {
			return true
		}
	}
	return false
}

func (c Config) needsDental() bool {
	return c.has(TargetComparison) || c.has(TargetBookings) ||
		c.has(TargetOutreachCSV) || c.has(TargetOutreachParquet)
}
