package authserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/authdialog/internal/config"
	"github.com/studiowebux/authdialog/internal/migrations"
)

var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)

// Account is a stored user
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	Disabled     bool
	CreatedAt    time.Time
}

// Token is an issued id token with its refresh token
type Token struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Store persists accounts, tokens and reset codes in SQLite
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at dbPath
func OpenStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to user database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser stores a new account and returns it
func (s *Store) CreateUser(ctx context.Context, email string, passwordHash []byte) (Account, error) {
	acct := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		acct.ID, acct.Email, acct.PasswordHash, acct.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("failed to create user: %w", err)
	}

	return acct, nil
}

const accountColumns = "id, email, display_name, password_hash, disabled, created_at"

func scanAccount(row *sql.Row) (Account, error) {
	var acct Account
	err := row.Scan(&acct.ID, &acct.Email, &acct.DisplayName, &acct.PasswordHash, &acct.Disabled, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read user: %w", err)
	}
	return acct, nil
}

// UserByEmail looks up an account by email, case-insensitively
func (s *Store) UserByEmail(ctx context.Context, email string) (Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM users WHERE email = ?", email))
}

// UserByID looks up an account by id
func (s *Store) UserByID(ctx context.Context, id string) (Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM users WHERE id = ?", id))
}

// UserByToken resolves an unexpired id token to its account
func (s *Store) UserByToken(ctx context.Context, idToken string, now time.Time) (Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		"SELECT u.id, u.email, u.display_name, u.password_hash, u.disabled, u.created_at "+
			"FROM id_tokens t JOIN users u ON u.id = t.user_id "+
			"WHERE t.token = ? AND t.expires_at > ?",
		idToken, now.Unix()))
}

// SetDisplayName updates the display name of an account
func (s *Store) SetDisplayName(ctx context.Context, id, name string) error {
	return s.updateOne(ctx, "UPDATE users SET display_name = ? WHERE id = ?", name, id)
}

// SetDisabled enables or disables an account
func (s *Store) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return s.updateOne(ctx, "UPDATE users SET disabled = ? WHERE id = ?", disabled, id)
}

// SetPasswordHash replaces the password hash of an account
func (s *Store) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	return s.updateOne(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
}

func (s *Store) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IssueToken creates an id token for the account valid until now+ttl
func (s *Store) IssueToken(ctx context.Context, userID string, now time.Time, ttl time.Duration) (Token, error) {
	tok := Token{
		IDToken:      uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(ttl),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO id_tokens (token, user_id, refresh_token, expires_at) VALUES (?, ?, ?, ?)",
		tok.IDToken, userID, tok.RefreshToken, tok.ExpiresAt.Unix(),
	)
	if err != nil {
		return Token{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return tok, nil
}

// CreateOobCode records an out-of-band code for the account
func (s *Store) CreateOobCode(ctx context.Context, userID, requestType string, now time.Time, ttl time.Duration) (string, error) {
	code := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO oob_codes (code, user_id, request_type, expires_at) VALUES (?, ?, ?, ?)",
		code, userID, requestType, now.Add(ttl).Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create reset code: %w", err)
	}
	return code, nil
}

// ConsumeOobCode deletes an unexpired code and returns its account id.
// Lookup and delete are one statement, so a code is redeemed at most once
// even under concurrent requests.
func (s *Store) ConsumeOobCode(ctx context.Context, code, requestType string, now time.Time) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM oob_codes WHERE code = ? AND request_type = ? AND expires_at > ? RETURNING user_id",
		code, requestType, now.Unix(),
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume reset code: %w", err)
	}
	return userID, nil
}

// PruneExpired removes expired tokens and codes, returning how many rows went
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"id_tokens", "oob_codes"} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE expires_at <= ?", now.Unix())
		if err != nil {
			return total, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
