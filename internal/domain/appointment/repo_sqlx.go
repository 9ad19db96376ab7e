package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type sourceSQLX struct{ db *sqlx.DB }

// NewSourceSQLX returns a Source that runs the same queries through
// database/sql, for stores reached through a database/sql driver.
func NewSourceSQLX(db *sqlx.DB) Source { return &sourceSQLX{db: db} }

func (s *sourceSQLX) DentalAppointments(ctx context.Context, eventDate time.Time, locationPattern string) (ResultSet, error) {
	return s.query(ctx, dentalAppointmentsSQL, eventDate.Format(QueryDateLayout), locationPattern)
}

func (s *sourceSQLX) KeptMedicalMRNs(ctx context.Context, locationPattern string, since *time.Time) (ResultSet, error) {
	if since == nil {
		return s.query(ctx, keptMedicalMRNsSQL, locationPattern)
	}
	return s.query(ctx, keptMedicalMRNsSinceSQL, locationPattern, since.Format(QueryDateLayout))
}

func (s *sourceSQLX) query(ctx context.Context, query string, args ...interface{}) (ResultSet, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return ResultSet{}, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return ResultSet{}, fmt.Errorf("read columns: %w", err)
	}
	rs := ResultSet{Columns: cols}

	for rows.Next() {
		row := make(map[string]interface{}, len(cols))
		if err := rows.MapScan(row); err != nil {
			return ResultSet{}, fmt.Errorf("scan row: %w", err)
		}
		for key, value := range row {
			switch v := value.(type) {
			case nil:
				delete(row, key)
			case []byte:
				row[key] = string(v)
			}
		}
		rs.Rows = append(rs.Rows, Row(row))
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}
