package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slugCountQuery = "SELECT COUNT\\(\\*\\) FROM stores WHERE slug REGEXP \\? AND id <> \\?"

func TestAssignSlugFirstStoreKeepsBase(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	mock.ExpectQuery(slugCountQuery).
		WithArgs("^(coffee-corner)(-[0-9]*)?$", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	slug, err := repo.assignSlug(context.Background(), "Coffee Corner", 0)
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner", slug)
}

func TestAssignSlugDisambiguates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	mock.ExpectQuery(slugCountQuery).
		WithArgs("^(coffee-corner)(-[0-9]*)?$", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	slug, err := repo.assignSlug(context.Background(), "Coffee Corner", 0)
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner-3", slug)
}

func TestAssignSlugExcludesSelfOnUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	mock.ExpectQuery(slugCountQuery).
		WithArgs("^(coffee-corner)(-[0-9]*)?$", uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	slug, err := repo.assignSlug(context.Background(), "Coffee Corner", 7)
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner", slug)
}

func TestStoreCreateTruncatesLongNames(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	longName := "A Name So Long It Overflows The Forty Character Cap"
	wantName := "A Name So Long It Overflows The Forty Ch" // first 40 runes

	mock.ExpectQuery(slugCountQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO stores").
		WithArgs(uint64(1), wantName, "a-name-so-long-it-overflows-the-forty-ch",
			"desc", "addr", 4.9, 52.3, 4.9, 52.3, "").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM store_tags WHERE store_id=?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM stores WHERE id = ?")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s := Store{OwnerID: 1, Name: longName, Description: "desc", Address: "addr", Lng: 4.9, Lat: 52.3}
	require.NoError(t, repo.Create(context.Background(), &s))
	assert.Equal(t, wantName, s.Name)
	assert.Equal(t, uint64(11), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateKeepsSlugWhenNameUnchanged(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id,owner_id,name,slug").
		WithArgs(uint64(5)).
		WillReturnRows(storeRows().AddRow(
			5, 1, "Coffee Corner", "coffee-corner", "old desc", "addr",
			4.9, 52.3, "photo.png", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT tag FROM store_tags WHERE store_id=?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"tag"}))

	// No slug-count query: the name did not change.
	mock.ExpectExec("UPDATE stores SET name").
		WithArgs("Coffee Corner", "coffee-corner", "new desc", "addr",
			4.9, 52.3, 4.9, 52.3, "photo.png", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM store_tags WHERE store_id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := Store{ID: 5, Name: "Coffee Corner", Description: "new desc", Address: "addr", Lng: 4.9, Lat: 52.3}
	require.NoError(t, repo.Update(context.Background(), &s))
	assert.Equal(t, "coffee-corner", s.Slug)
	assert.Equal(t, "photo.png", s.Photo) // empty photo keeps the stored file
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopStores(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	mock.ExpectQuery("HAVING COUNT\\(r.id\\) >= 2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "photo", "average_rating", "review_count"}).
			AddRow(2, "beer-hall", "Beer Hall", "", 4.8, 12).
			AddRow(1, "coffee-corner", "Coffee Corner", "c.png", 4.2, 3))

	rows, err := repo.TopStores(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "beer-hall", rows[0].Slug)
	assert.InDelta(t, 4.8, rows[0].AverageRating, 0.001)
	assert.Equal(t, int64(3), rows[1].ReviewCount)
}

func TestTagCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStoreRepo(db)

	mock.ExpectQuery("GROUP BY tag").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "count"}).
			AddRow("Wifi", 7).
			AddRow("Open Late", 3))

	counts, err := repo.TagCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, TagCount{Tag: "Wifi", Count: 7}, counts[0])
}

func storeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "slug", "description", "address",
		"lng", "lat", "photo", "created_at", "updated_at",
	})
}
