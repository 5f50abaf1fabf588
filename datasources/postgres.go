package datasources

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"competitors/graph"
	"competitors/logger"

	"github.com/lib/pq"
)

// OpenPostgres opens and pings a PostgreSQL database.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// PostgresColumns names the table columns holding a trade row.
type PostgresColumns struct {
	Company    string `yaml:"company" toml:"company"`
	Code       string `yaml:"code" toml:"code"`
	MonthCount string `yaml:"month_count" toml:"month_count"`
}

// DefaultPostgresColumns mirrors the header of the trade export file.
var DefaultPostgresColumns = PostgresColumns{Company: "co_name", Code: "HScode", MonthCount: "MonthCount"}

// PostgresSource streams rows from a table. NULLs become empty strings.
type PostgresSource struct {
	db      *sql.DB
	table   string
	columns PostgresColumns
}

// NewPostgresSource returns a source reading cols from table.
func NewPostgresSource(db *sql.DB, table string, cols PostgresColumns) *PostgresSource {
	return &PostgresSource{db: db, table: table, columns: cols}
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		pq.QuoteIdentifier(s.columns.Company),
		pq.QuoteIdentifier(s.columns.Code),
		pq.QuoteIdentifier(s.columns.MonthCount),
		pq.QuoteIdentifier(s.table))
}

// Rows runs the select and streams its result set.
func (s *PostgresSource) Rows(ctx context.Context) iter.Seq2[graph.Row, error] {
	return func(yield func(graph.Row, error) bool) {
		rows, err := s.db.QueryContext(ctx, s.query())
		if err != nil {
			yield(graph.Row{}, fmt.Errorf("querying %s: %w", s.table, err))
			return
		}
		defer rows.Close()

		logger.Info(logger.StatusData, "Reading trade rows from table %s", s.table)
		for rows.Next() {
			var company, code, months sql.NullString
			if err := rows.Scan(&company, &code, &months); err != nil {
				yield(graph.Row{}, fmt.Errorf("scanning trade row: %w", err))
				return
			}
			row := graph.Row{Company: company.String, Code: code.String, MonthCount: months.String}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(graph.Row{}, fmt.Errorf("iterating %s: %w", s.table, err))
		}
	}
}
