package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"puravida/internal/cart"
)

// CartSnapshotRepo stores serialized carts in SQLite. It satisfies cart.Storage.
type CartSnapshotRepo struct{ db *sqlx.DB }

func NewCartSnapshotRepo(db *sqlx.DB) *CartSnapshotRepo { return &CartSnapshotRepo{db: db} }

var _ cart.Storage = (*CartSnapshotRepo)(nil)

func (r *CartSnapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM cart_snapshots WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *CartSnapshotRepo) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots(key, payload, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, data, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *CartSnapshotRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE key = ?`, key)
	return err
}

// PurgeOlderThan removes snapshots not written since cutoff and returns how
// many were deleted.
func (r *CartSnapshotRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE updated_at < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
