package mysql

import (
	"context"
	"database/sql"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"nutricheck/internal/domain"
)

// DSN normalizes a configured DSN; seen_at scans into time.Time, which needs parseTime.
func DSN(raw string) (string, error) {
	cfg, err := driver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// MissLog records failed upstream fetches. It stores diagnostics only, never menu items.
type MissLog struct{ db *sql.DB }

func New(db *sql.DB) *MissLog { return &MissLog{db: db} }

func valStatus(s int) any {
	if s == 0 {
		return nil // transport failure, no HTTP status
	}
	return s
}

func (r *MissLog) LogMiss(ctx context.Context, locationID, date string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, locationID, date, valStatus(status), reason)
	return err
}

// Recent returns the latest misses, newest first.
func (r *MissLog) Recent(ctx context.Context, limit int) ([]domain.Miss, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listMissesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Miss
	for rows.Next() {
		var m domain.Miss
		var status sql.NullInt64
		if err := rows.Scan(&m.LocationID, &m.Date, &status, &m.Reason, &m.Hits, &m.SeenAt); err != nil {
			return nil, err
		}
		if status.Valid {
			m.Status = int(status.Int64)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
