package repository

import (
	"context"
	"database/sql"
	"strings"
)

// FavoriteRepo persists the per-user set of favorited store ids.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Toggle removes the (user, store) pair when present, otherwise inserts it.
// Each statement is individually atomic; concurrent toggles interleave as a
// sequence of toggles, which is the documented contract. Returns whether
// the store is a favorite after the call.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, storeID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND store_id=?", userID, storeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil // was a favorite, now removed
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO favorites (user_id, store_id) VALUES (?,?)", userID, storeID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return false, ErrStoreNotFound
		}
		return false, err
	}
	return true, nil
}

// ListIDs returns the ids of every store the user has favorited.
func (r *FavoriteRepo) ListIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT store_id FROM favorites WHERE user_id=? ORDER BY store_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0, 8)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
