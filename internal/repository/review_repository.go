package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Review mirrors the 'reviews' table. Reviews are immutable once written;
// there is no update or delete path.
type Review struct {
	ID         uint64
	StoreID    uint64
	AuthorID   uint64
	AuthorName string // resolved via join on read
	Rating     int
	Text       string
	CreatedAt  time.Time
}

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review for an existing store. A foreign-key failure on
// the store reference surfaces as ErrStoreNotFound.
func (r *ReviewRepo) Create(ctx context.Context, storeID, authorID uint64, rating int, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (store_id, author_id, rating, text) VALUES (?,?,?,?)",
		storeID, authorID, rating, text)
	if err != nil {
		// 1452 = foreign key constraint fails on insert
		if strings.Contains(err.Error(), "1452") {
			return 0, ErrStoreNotFound
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListForStore returns a store's reviews with author names, newest first.
// This is the explicit replacement for relying on the data layer to
// populate reviews on every store read.
func (r *ReviewRepo) ListForStore(ctx context.Context, storeID uint64) ([]Review, error) {
	const q = `SELECT r.id, r.store_id, r.author_id, u.name, r.rating, r.text, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.store_id = ?
		ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.StoreID, &rv.AuthorID, &rv.AuthorName,
			&rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
