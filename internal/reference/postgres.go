package reference

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresSource reads distinct countries from a table with a "country" column.
type PostgresSource struct {
	db    *sqlx.DB
	table string
}

// NewPostgresSource reads from table in db.
func NewPostgresSource(db *sqlx.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) Describe() string { return "postgres table " + s.table }

// Countries returns the non-null country values.
func (s *PostgresSource) Countries(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT country FROM %s WHERE country IS NOT NULL`,
		pq.QuoteIdentifier(s.table),
	)
	var names []string
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("select countries: %w", err)
	}
	return names, nil
}
