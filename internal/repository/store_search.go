package repository

import (
	"context"
)

// SearchRow is the reduced projection returned by the JSON search
// endpoints. Score is the full-text relevance for text search and is zero
// for geospatial results, which are ordered by distance instead.
type SearchRow struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lng         float64 `json:"lng"`
	Lat         float64 `json:"lat"`
	Photo       string  `json:"photo,omitempty"`
	Score       float64 `json:"score,omitempty"`
	DistanceM   float64 `json:"distance_m,omitempty"`
}

// nearRadiusMeters bounds the geospatial search to 10 km.
const nearRadiusMeters = 10000

// TextSearch ranks stores against a free-text query using the FULLTEXT
// index over (name, description), best match first. Callers are expected
// to have rejected empty queries already.
func (r *StoreRepo) TextSearch(ctx context.Context, query string, limit int) ([]SearchRow, error) {
	const q = `SELECT slug, name, description, lng, lat, COALESCE(photo,''),
			MATCH(name, description) AGAINST(? IN NATURAL LANGUAGE MODE) AS score
		FROM stores
		WHERE MATCH(name, description) AGAINST(? IN NATURAL LANGUAGE MODE)
		ORDER BY score DESC
		LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, query, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SearchRow, 0, limit)
	for rows.Next() {
		var s SearchRow
		if err := rows.Scan(&s.Slug, &s.Name, &s.Description, &s.Lng, &s.Lat, &s.Photo, &s.Score); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Near returns up to limit stores within 10 km of the point, nearest first,
// projected to the reduced field set used by the map.
func (r *StoreRepo) Near(ctx context.Context, lng, lat float64, limit int) ([]SearchRow, error) {
	const q = `SELECT slug, name, description, lng, lat, COALESCE(photo,''),
			ST_Distance_Sphere(location, ` + geomExpr + `) AS distance_m
		FROM stores
		HAVING distance_m <= ?
		ORDER BY distance_m ASC
		LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, lng, lat, nearRadiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SearchRow, 0, limit)
	for rows.Next() {
		var s SearchRow
		if err := rows.Scan(&s.Slug, &s.Name, &s.Description, &s.Lng, &s.Lat, &s.Photo, &s.DistanceM); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
