package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ehr/dentalrecon/internal/domain/outreach"
)

// OutreachCSV writes the outreach list as a plain delimited file with a
// header row.
type OutreachCSV struct{}

// NewOutreachCSV creates a CSV outreach writer.
func NewOutreachCSV() *OutreachCSV { return &OutreachCSV{} }

// WriteOutreach writes records to path in the order given, creating parent
// directories.
func (w *OutreachCSV) WriteOutreach(path string, records []outreach.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create outreach file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(outreach.Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			f.Close()
			return fmt.Errorf("write record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush outreach file: %w", err)
	}
	return f.Close()
}
