package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/ehr/dentalrecon/internal/domain/outreach"
)

// OutreachParquet writes the outreach list as a Snappy-compressed Parquet
// file for the analytics warehouse.
type OutreachParquet struct{}

// NewOutreachParquet creates a Parquet outreach writer.
func NewOutreachParquet() *OutreachParquet { return &OutreachParquet{} }

// WriteOutreach writes records to path in the order given, creating parent
// directories.
func (w *OutreachParquet) WriteOutreach(path string, records []outreach.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create outreach parquet: %w", err)
	}

	pw := parquet.NewGenericWriter[outreach.Record](f, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(records); err != nil {
		pw.Close()
		f.Close()
		return fmt.Errorf("write outreach rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close outreach writer: %w", err)
	}
	return f.Close()
}
