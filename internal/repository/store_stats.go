package repository

import "context"

// TagCount is one row of the tag histogram.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TopStoreRow is a store augmented with its review statistics.
type TopStoreRow struct {
	ID            uint64  `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Photo         string  `json:"photo,omitempty"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// TagCounts returns every distinct tag with the number of stores carrying
// it, most used first. A store contributes one count per distinct tag.
func (r *StoreRepo) TagCounts(ctx context.Context) ([]TagCount, error) {
	const q = `SELECT tag, COUNT(*) AS count
		FROM store_tags
		GROUP BY tag
		ORDER BY count DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var t TagCount
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TopStores returns up to 10 stores having at least two reviews, ordered by
// descending arithmetic-mean rating. Stores with zero or one review are
// excluded entirely rather than ranked at zero.
func (r *StoreRepo) TopStores(ctx context.Context) ([]TopStoreRow, error) {
	const q = `SELECT s.id, s.slug, s.name, COALESCE(s.photo,''),
			AVG(r.rating) AS average_rating, COUNT(r.id) AS review_count
		FROM stores s
		JOIN reviews r ON r.store_id = s.id
		GROUP BY s.id, s.slug, s.name, s.photo
		HAVING COUNT(r.id) >= 2
		ORDER BY average_rating DESC
		LIMIT 10`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopStoreRow
	for rows.Next() {
		var t TopStoreRow
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Photo, &t.AverageRating, &t.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
