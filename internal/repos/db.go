package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
-- Cart snapshots: one serialized line list per visitor key
CREATE TABLE IF NOT EXISTS cart_snapshots(
  key TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cart_snapshots_updated_at ON cart_snapshots(updated_at);
`

// OpenDB opens the SQLite cart database and applies the schema.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)

	if dsn != ":memory:" {
		for _, p := range []string{`PRAGMA journal_mode=WAL`, `PRAGMA busy_timeout=5000`} {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("sqlite %q: %w", p, err)
			}
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return db, nil
}
