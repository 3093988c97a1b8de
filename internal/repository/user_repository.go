package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/store-directory/internal/utils"
)

// User mirrors the 'users' table. The reset fields are NULL except between
// a forgot-password request and its consumption or expiry.
type User struct {
	ID             uint64
	Email          string
	Name           string
	PasswordHash   string
	ResetTokenHash sql.NullString
	ResetExpires   sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id,email,name,password_hash,reset_token_hash,reset_expires,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ResetTokenHash, &u.ResetExpires, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with a freshly hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES (?,?,?)",
		email, name, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile changes name and email for an existing account.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=? WHERE id=?", name, email, id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrEmailExists
	}
	return err
}

// SetResetToken stores the hash of a freshly issued reset token together
// with its expiry, replacing any pending one.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, tokenHash string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_expires=? WHERE id=?",
		tokenHash, expires, id)
	return err
}

// FindByResetToken returns the user holding a matching, unexpired reset
// token. Expired and unknown tokens are indistinguishable to callers:
// both surface as sql.ErrNoRows.
func (r *UserRepo) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE reset_token_hash=? AND reset_expires > ? LIMIT 1",
		tokenHash, now))
}

// CompleteReset sets the new password hash and clears the reset fields in a
// single statement so a consumed token can never match again.
func (r *UserRepo) CompleteReset(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_expires=NULL WHERE id=?",
		passwordHash, id)
	return err
}
