package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"

	_ "modernc.org/sqlite"
)

type SQLitePlanLog struct {
	db *sql.DB
}

var _ resolverout.PlanLog = (*SQLitePlanLog)(nil)

func NewSQLitePlanLog(dbPath string) (*SQLitePlanLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	l := &SQLitePlanLog{db: db}
	if err := l.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLitePlanLog) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS plans (
  id TEXT PRIMARY KEY,
  created_at INTEGER NOT NULL,
  target_name TEXT NOT NULL,
  identifiers TEXT NOT NULL,
  run_level TEXT NOT NULL,
  target TEXT NOT NULL,
  validation TEXT NOT NULL,
  plan_order TEXT NOT NULL,
  csr TEXT NOT NULL,
  stores TEXT NOT NULL,
  installations TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at);
`
	if _, err := l.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create plans table: %w", err)
	}
	return nil
}

func (l *SQLitePlanLog) Record(ctx context.Context, record domain.PlanRecord) error {
	const stmt = `
INSERT INTO plans (id, created_at, target_name, identifiers, run_level, target, validation, plan_order, csr, stores, installations)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := l.db.ExecContext(ctx, stmt,
		record.ID,
		record.CreatedAt.UnixNano(),
		record.TargetName,
		strings.Join(record.Identifiers, ","),
		record.RunLevel,
		record.Target,
		record.Validation,
		record.Order,
		record.Csr,
		strings.Join(record.Stores, ","),
		strings.Join(record.Installations, ","),
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// List returns the newest plans first. created_at holds Unix nanoseconds.
func (l *SQLitePlanLog) List(ctx context.Context, limit int) ([]domain.PlanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
SELECT id, created_at, target_name, identifiers, run_level, target, validation, plan_order, csr, stores, installations
FROM plans
ORDER BY created_at DESC, id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PlanRecord, 0, limit)
	for rows.Next() {
		item := domain.PlanRecord{}
		var createdAt int64
		var identifiers, stores, installs string
		if err := rows.Scan(&item.ID, &createdAt, &item.TargetName, &identifiers, &item.RunLevel, &item.Target, &item.Validation, &item.Order, &item.Csr, &stores, &installs); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		item.CreatedAt = time.Unix(0, createdAt).UTC()
		item.Identifiers = domain.SplitList(identifiers)
		item.Stores = domain.SplitList(stores)
		item.Installations = domain.SplitList(installs)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return out, nil
}

func (l *SQLitePlanLog) Close() error {
	return l.db.Close()
}
