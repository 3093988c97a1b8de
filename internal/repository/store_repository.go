// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Store model and repository methods for CRUD, slug
// assignment and paginated listing. A Store is a venue in the directory
// owned by the user who submitted it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/store-directory/internal/utils"
)

// Store mirrors the 'stores' table plus its tag rows. Lng/Lat duplicate the
// spatial column so rows can be read back without spatial functions.
type Store struct {
	ID          uint64
	OwnerID     uint64
	Name        string
	Slug        string
	Description string
	Address     string
	Lng         float64
	Lat         float64
	Photo       string // empty when no photo was uploaded
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	AuthorName string // populated by GetBySlug only
}

// ErrStoreNotFound is returned when a store cannot be found in the DB.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepo encapsulates all database queries related to stores.
type StoreRepo struct{ DB *sql.DB }

func NewStoreRepo(db *sql.DB) *StoreRepo { return &StoreRepo{DB: db} }

const storeCols = "id,owner_id,name,slug,description,address,lng,lat,COALESCE(photo,''),created_at,updated_at"

// geomExpr builds the spatial column from lng/lat placeholders. The explicit
// axis-order option sidesteps MySQL's lat-first convention for SRID 4326.
const geomExpr = "ST_GeomFromText(CONCAT('POINT(',?,' ',?,')'), 4326, 'axis-order=long-lat')"

func scanStore(sc interface{ Scan(...any) error }) (Store, error) {
	var s Store
	err := sc.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description,
		&s.Address, &s.Lng, &s.Lat, &s.Photo, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// assignSlug computes a unique slug for name. Rows matching the
// disambiguation pattern ^base(-[0-9]*)?$ are counted (excluding the store
// itself on update) and the count picks the suffix. The check-then-write
// window is not transactional; the unique index on stores.slug backstops it.
func (r *StoreRepo) assignSlug(ctx context.Context, name string, excludeID uint64) (string, error) {
	base := utils.Slugify(name)
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stores WHERE slug REGEXP ? AND id <> ?",
		utils.SlugPattern(base), excludeID).Scan(&n)
	if err != nil {
		return "", err
	}
	return utils.UniqueSlug(base, n), nil
}

// Create inserts a new store with a freshly assigned slug and its tag rows.
// On success the ID, Slug and timestamp fields are populated.
func (r *StoreRepo) Create(ctx context.Context, s *Store) error {
	s.Name = utils.TruncateName(strings.TrimSpace(s.Name))
	slug, err := r.assignSlug(ctx, s.Name, 0)
	if err != nil {
		return err
	}
	s.Slug = slug

	const q = "INSERT INTO stores (owner_id, name, slug, description, address, lng, lat, location, photo)" +
		" VALUES (?,?,?,?,?,?,?," + geomExpr + ",NULLIF(?,''))"
	res, err := r.DB.ExecContext(ctx, q,
		s.OwnerID, s.Name, s.Slug, s.Description, s.Address,
		s.Lng, s.Lat, s.Lng, s.Lat, s.Photo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if err := r.replaceTags(ctx, s.ID, s.Tags); err != nil {
		return err
	}

	// Follow-up SELECT to populate default timestamp fields.
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM stores WHERE id = ?", s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites a store's mutable fields. The slug is reassigned only
// when the name changed; updates that leave the name alone keep the
// existing slug untouched. An empty s.Photo keeps the stored filename.
func (r *StoreRepo) Update(ctx context.Context, s *Store) error {
	cur, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Name = utils.TruncateName(strings.TrimSpace(s.Name))
	s.Slug = cur.Slug
	if s.Name != cur.Name {
		slug, err := r.assignSlug(ctx, s.Name, s.ID)
		if err != nil {
			return err
		}
		s.Slug = slug
	}
	if s.Photo == "" {
		s.Photo = cur.Photo
	}

	const q = "UPDATE stores SET name=?, slug=?, description=?, address=?, lng=?, lat=?," +
		" location=" + geomExpr + ", photo=NULLIF(?,'') WHERE id=?"
	if _, err := r.DB.ExecContext(ctx, q,
		s.Name, s.Slug, s.Description, s.Address, s.Lng, s.Lat,
		s.Lng, s.Lat, s.Photo, s.ID); err != nil {
		return err
	}
	return r.replaceTags(ctx, s.ID, s.Tags)
}

// replaceTags rewrites the tag rows for a store.
func (r *StoreRepo) replaceTags(ctx context.Context, storeID uint64, tags []string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM store_tags WHERE store_id=?", storeID); err != nil {
		return err
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO store_tags (store_id, tag) VALUES (?,?)", storeID, tag); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a store by id, tags included.
func (r *StoreRepo) GetByID(ctx context.Context, id uint64) (Store, error) {
	s, err := scanStore(r.DB.QueryRowContext(ctx,
		"SELECT "+storeCols+" FROM stores WHERE id=? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Store{}, ErrStoreNotFound
		}
		return Store{}, err
	}
	s.Tags, err = r.tagsFor(ctx, s.ID)
	return s, err
}

// GetBySlug fetches a store by slug with its author's name resolved. The
// store's reviews are a separate query (ReviewRepo.ListForStore); nothing
// is auto-populated.
func (r *StoreRepo) GetBySlug(ctx context.Context, slug string) (Store, error) {
	const q = "SELECT s.id,s.owner_id,s.name,s.slug,s.description,s.address,s.lng,s.lat," +
		"COALESCE(s.photo,''),s.created_at,s.updated_at,u.name" +
		" FROM stores s JOIN users u ON u.id = s.owner_id WHERE s.slug=? LIMIT 1"
	var s Store
	err := r.DB.QueryRowContext(ctx, q, slug).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description, &s.Address,
		&s.Lng, &s.Lat, &s.Photo, &s.CreatedAt, &s.UpdatedAt, &s.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Store{}, ErrStoreNotFound
		}
		return Store{}, err
	}
	s.Tags, err = r.tagsFor(ctx, s.ID)
	return s, err
}

// List returns one page of stores, newest first, along with the total row
// count so handlers can compute the number of pages.
func (r *StoreRepo) List(ctx context.Context, page, perPage int) ([]Store, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM stores").Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+storeCols+" FROM stores ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	stores, err := collectStores(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(ctx, stores); err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// ListByTag returns stores carrying the given tag; an empty tag means every
// store that has at least one tag.
func (r *StoreRepo) ListByTag(ctx context.Context, tag string) ([]Store, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if tag == "" {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT DISTINCT "+prefixCols("s")+" FROM stores s"+
				" JOIN store_tags t ON t.store_id = s.id ORDER BY s.created_at DESC")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+prefixCols("s")+" FROM stores s"+
				" JOIN store_tags t ON t.store_id = s.id AND t.tag = ? ORDER BY s.created_at DESC",
			tag)
	}
	if err != nil {
		return nil, err
	}
	stores, err := collectStores(rows)
	if err != nil {
		return nil, err
	}
	return stores, r.attachTags(ctx, stores)
}

// tagsFor loads the tag list of a single store.
func (r *StoreRepo) tagsFor(ctx context.Context, storeID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT tag FROM store_tags WHERE store_id=? ORDER BY tag", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// attachTags loads tags for a batch of stores with a single query.
func (r *StoreRepo) attachTags(ctx context.Context, stores []Store) error {
	if len(stores) == 0 {
		return nil
	}
	idx := make(map[uint64]int, len(stores))
	ids := make([]string, 0, len(stores))
	args := make([]any, 0, len(stores))
	for i := range stores {
		idx[stores[i].ID] = i
		ids = append(ids, "?")
		args = append(args, stores[i].ID)
	}
	q := fmt.Sprintf("SELECT store_id, tag FROM store_tags WHERE store_id IN (%s) ORDER BY tag",
		strings.Join(ids, ","))
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  uint64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return err
		}
		if i, ok := idx[id]; ok {
			stores[i].Tags = append(stores[i].Tags, tag)
		}
	}
	return rows.Err()
}

func prefixCols(alias string) string {
	return alias + ".id," + alias + ".owner_id," + alias + ".name," + alias + ".slug," +
		alias + ".description," + alias + ".address," + alias + ".lng," + alias + ".lat," +
		"COALESCE(" + alias + ".photo,'')," + alias + ".created_at," + alias + ".updated_at"
}

func collectStores(rows *sql.Rows) ([]Store, error) {
	defer rows.Close()
	var out []Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
