package gexlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/types"
)

// SQLiteSink mirrors extraction records into an append-only table.
type SQLiteSink struct {
	db *sql.DB
}

var _ interfaces.RecordSink = (*SQLiteSink)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSink{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS gex_records (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	total_gamma INTEGER NOT NULL,
	raw_label   TEXT NOT NULL,
	source_url  TEXT NOT NULL,
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gex_records_symbol_date ON gex_records(symbol, date);
`

func (s *SQLiteSink) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Write(ctx context.Context, rec types.ExtractionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gex_records (id, date, symbol, total_gamma, raw_label, source_url, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.Date(), rec.Symbol, rec.TotalGamma, rec.RawLabel, rec.SourceURL, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: insert record")
}

// Count returns how many records exist for symbol.
func (s *SQLiteSink) Count(ctx context.Context, symbol string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gex_records WHERE symbol = ?`, symbol).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count records")
}

// Latest returns the most recently recorded row for symbol.
func (s *SQLiteSink) Latest(ctx context.Context, symbol string) (types.ExtractionRecord, error) {
	var (
		rec  types.ExtractionRecord
		date string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT date, symbol, total_gamma, raw_label, source_url FROM gex_records WHERE symbol = ? ORDER BY recorded_at DESC, rowid DESC LIMIT 1`,
		symbol,
	).Scan(&date, &rec.Symbol, &rec.TotalGamma, &rec.RawLabel, &rec.SourceURL)
	if err != nil {
		return types.ExtractionRecord{}, eris.Wrap(err, "sqlite: latest record")
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return types.ExtractionRecord{}, eris.Wrap(err, "sqlite: parse date")
	}
	rec.CaptureDate = d
	return rec, nil
}
