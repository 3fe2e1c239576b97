package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
	"github.com/charleschow/coinone-dca/internal/telemetry"

	_ "modernc.org/sqlite"
)

// Submission is what the job knows right after the order call returns.
type Submission struct {
	PlacedAt       time.Time
	UserOrderID    string
	OrderID        string
	QuoteCurrency  string
	TargetCurrency string
	Amount         string
	LimitPrice     string
	Result         string
	ErrorCode      string
	Raw            []byte
}

// Row is one persisted order, including its execution result once known.
type Row struct {
	ID int64
	Submission

	Status               string
	AverageExecutedPrice string
	ExecutedQty          string
	TradedAmount         string
	Fee                  string
	OrderedAt            time.Time
}

// Store persists one row per order attempt in SQLite. A nil *Store is a
// valid no-op recorder.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create order store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id                     INTEGER PRIMARY KEY AUTOINCREMENT,
			placed_at              TEXT NOT NULL,
			user_order_id          TEXT NOT NULL UNIQUE,
			order_id               TEXT,
			quote_currency         TEXT NOT NULL,
			target_currency        TEXT NOT NULL,
			amount                 TEXT NOT NULL,
			limit_price            TEXT NOT NULL,
			result                 TEXT NOT NULL,
			error_code             TEXT,
			raw                    BLOB,

			status                 TEXT,
			average_executed_price TEXT,
			executed_qty           TEXT,
			traded_amount          TEXT,
			fee                    TEXT,
			ordered_at_ms          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read row count: %w", err)
	}

	telemetry.Infof("order store: opened %s  rows=%d", path, count)
	return &Store{db: db}, nil
}

func (s *Store) RecordSubmission(sub Submission) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO orders (
			placed_at, user_order_id, order_id,
			quote_currency, target_currency, amount, limit_price,
			result, error_code, raw
		) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		sub.PlacedAt.UTC().Format(time.RFC3339Nano),
		sub.UserOrderID,
		nullIfEmpty(sub.OrderID),
		sub.QuoteCurrency,
		sub.TargetCurrency,
		sub.Amount,
		sub.LimitPrice,
		sub.Result,
		nullIfEmpty(sub.ErrorCode),
		sub.Raw,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", sub.UserOrderID, err)
	}
	return nil
}

// RecordResult attaches the order detail to the row created by RecordSubmission.
func (s *Store) RecordResult(userOrderID string, o coinone_http.Order) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE orders SET
			order_id = COALESCE(order_id, ?),
			status = ?, average_executed_price = ?, executed_qty = ?,
			traded_amount = ?, fee = ?, ordered_at_ms = ?
		WHERE user_order_id = ?`,
		o.OrderID,
		o.Status,
		o.AverageExecutedPrice.String(),
		o.ExecutedQty.String(),
		o.TradedAmount.String(),
		o.Fee.String(),
		o.OrderedAt,
		userOrderID,
	)
	if err != nil {
		return fmt.Errorf("update order %s: %w", userOrderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update order %s: no such order", userOrderID)
	}
	return nil
}

// Recent returns up to n orders, newest first.
func (s *Store) Recent(n int) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, placed_at, user_order_id, COALESCE(order_id, ''),
			quote_currency, target_currency, amount, limit_price,
			result, COALESCE(error_code, ''), raw,
			COALESCE(status, ''), COALESCE(average_executed_price, ''),
			COALESCE(executed_qty, ''), COALESCE(traded_amount, ''),
			COALESCE(fee, ''), COALESCE(ordered_at_ms, 0)
		FROM orders ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r         Row
			placedAt  string
			orderedMs int64
		)
		if err := rows.Scan(
			&r.ID, &placedAt, &r.UserOrderID, &r.OrderID,
			&r.QuoteCurrency, &r.TargetCurrency, &r.Amount, &r.LimitPrice,
			&r.Result, &r.ErrorCode, &r.Raw,
			&r.Status, &r.AverageExecutedPrice,
			&r.ExecutedQty, &r.TradedAmount,
			&r.Fee, &orderedMs,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		r.PlacedAt, _ = time.Parse(time.RFC3339Nano, placedAt)
		if orderedMs > 0 {
			r.OrderedAt = time.UnixMilli(orderedMs)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
