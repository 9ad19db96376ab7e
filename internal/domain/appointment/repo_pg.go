package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type sourcePG struct{ conn queryable }

// NewSourcePG returns a Source backed by a pgx pool.
func NewSourcePG(pool *pgxpool.Pool) Source { return &sourcePG{conn: pool} }

func (s *sourcePG) DentalAppointments(ctx context.Context, eventDate time.Time, locationPattern string) (ResultSet, error) {
	return s.query(ctx, dentalAppointmentsSQL, eventDate.Format(QueryDateLayout), locationPattern)
}

func (s *sourcePG) KeptMedicalMRNs(ctx context.Context, locationPattern string, since *time.Time) (ResultSet, error) {
	if since == nil {
		return s.query(ctx, keptMedicalMRNsSQL, locationPattern)
	}
	return s.query(ctx, keptMedicalMRNsSinceSQL, locationPattern, since.Format(QueryDateLayout))
}

func (s *sourcePG) query(ctx context.Context, sql string, args ...interface{}) (ResultSet, error) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return ResultSet{}, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	rs := ResultSet{Columns: make([]string, len(fieldDescs))}
	for i, fd := range fieldDescs {
		rs.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return ResultSet{}, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(fieldDescs))
		for i, col := range rs.Columns {
			if values[i] != nil {
				row[col] = values[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}
