package repository

import (
	"context"
	"database/sql"
	"fmt"

	domrepo "SilverPulse/internal/domain/repository"
	pkgch "SilverPulse/pkg/clickhouse"
	applogger "SilverPulse/pkg/logger"
)

// readingsSchema creates the append-only time series every live reading
// lands in. TTL keeps two years of history.
var readingsSchema = []string{
	`CREATE TABLE IF NOT EXISTS silver_readings (
        metric    LowCardinality(String),
        value     Float64,
        source    LowCardinality(String),
        ts        DateTime64(3, 'UTC')
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(ts)
    ORDER BY (metric, ts)
    TTL toDateTime(ts) + INTERVAL 2 YEAR`,
}

// CHReadingStore implements ReadingSink backed by ClickHouse.
type CHReadingStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHReadingStore(ch *pkgch.Client) *CHReadingStore {
	return &CHReadingStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHReadingStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init creates the readings table if missing.
func (s *CHReadingStore) Init(ctx context.Context, ch *pkgch.Client) error {
	return ch.InitSchema(ctx, readingsSchema)
}

func (s *CHReadingStore) Record(ctx context.Context, ev domrepo.ReadingEvent) error {
	const q = `INSERT INTO silver_readings (metric, value, source, ts) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, ev.Metric, ev.Value, ev.Source, ev.Timestamp); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse record reading error",
				applogger.String("metric", ev.Metric),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("record reading: %w", err)
	}
	return nil
}
