package barcache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"LevelSentinel/internal/model"
)

// SQLiteCache stores raw provider bars in a SQLite database.
type SQLiteCache struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite bar cache opened: %s", dbPath)
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol    TEXT    NOT NULL,
			interval  TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			PRIMARY KEY (symbol, interval, timestamp)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_windows (
			symbol     TEXT    NOT NULL,
			interval   TEXT    NOT NULL,
			start_ts   INTEGER NOT NULL,
			end_ts     INTEGER NOT NULL,
			bar_count  INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, interval, start_ts, end_ts)
		)`,
	}

	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Load returns the bars of a previously stored window. ok is false on a miss.
func (c *SQLiteCache) Load(symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	err := c.db.QueryRow(`SELECT bar_count FROM fetch_windows
		WHERE symbol = ? AND interval = ? AND start_ts = ? AND end_ts = ?`,
		symbol, string(interval), start.UnixMilli(), end.UnixMilli(),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query window: %w", err)
	}

	rows, err := c.db.Query(`SELECT timestamp, open, high, low, close, volume FROM bars
		WHERE symbol = ? AND interval = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp`,
		symbol, string(interval), start.UnixMilli(), end.UnixMilli(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	bars := make([]model.OHLCV, 0, count)
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, false, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.UnixMilli(ts).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(bars) < count {
		// bars were pruned underneath the window record
		return nil, false, nil
	}
	return bars, true, nil
}

// Store upserts bars and records the window as complete.
func (c *SQLiteCache) Store(symbol string, interval model.Interval, start, end time.Time, bars []model.OHLCV) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bars
		(symbol, interval, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, string(interval), b.Time.UnixMilli(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO fetch_windows
		(symbol, interval, start_ts, end_ts, bar_count, fetched_at)
		VALUES (?,?,?,?,?,?)`,
		symbol, string(interval), start.UnixMilli(), end.UnixMilli(), len(bars), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return tx.Commit()
}

func (c *SQLiteCache) Close() error {
	log.Info("closing sqlite bar cache")
	return c.db.Close()
}
