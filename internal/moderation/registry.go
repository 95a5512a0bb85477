package moderation

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Registry stores moderation records keyed by normalized email.
type Registry interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, email string) error
	SetBan(ctx context.Context, email, reason string, unbanAt *time.Time) error
	ClearBan(ctx context.Context, email string) error
}

type SQLiteRegistry struct {
	db *sql.DB
}

func NewSQLiteRegistry(db *sql.DB) *SQLiteRegistry {
	return &SQLiteRegistry{db: db}
}

// NormalizeEmail lowercases and trims an email for use as a registry key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLiteRegistry) CreateUser(ctx context.Context, u *User) error {
	var unbanAt interface{}
	if u.UnbanAt != nil {
		unbanAt = u.UnbanAt.Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registry_users (email, name, password, avatar, is_banned, ban_reason, unban_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, NormalizeEmail(u.Email), u.Name, u.Password, u.Avatar, boolToInt(u.IsBanned),
		nullString(u.BanReason), unbanAt, u.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRegistry) GetUser(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT email, name, password, avatar, is_banned, ban_reason, unban_at, created_at
		FROM registry_users WHERE email = ?
	`, NormalizeEmail(email))
	return r.scanUser(row)
}

func (r *SQLiteRegistry) scanUser(row *sql.Row) (*User, error) {
	var u User
	var isBanned int
	var banReason, unbanAt sql.NullString
	var createdAt string

	err := row.Scan(&u.Email, &u.Name, &u.Password, &u.Avatar, &isBanned, &banReason, &unbanAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.IsBanned = isBanned == 1
	u.BanReason = banReason.String
	if unbanAt.Valid {
		if t, err := time.Parse(time.RFC3339, unbanAt.String); err == nil {
			u.UnbanAt = &t
		}
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

func (r *SQLiteRegistry) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, name, password, avatar, is_banned, ban_reason, unban_at, created_at
		FROM registry_users ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		var isBanned int
		var banReason, unbanAt sql.NullString
		var createdAt string

		if err := rows.Scan(&u.Email, &u.Name, &u.Password, &u.Avatar, &isBanned, &banReason, &unbanAt, &createdAt); err != nil {
			return nil, err
		}
		u.IsBanned = isBanned == 1
		u.BanReason = banReason.String
		if unbanAt.Valid {
			if t, err := time.Parse(time.RFC3339, unbanAt.String); err == nil {
				u.UnbanAt = &t
			}
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *SQLiteRegistry) DeleteUser(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM registry_users WHERE email = ?", NormalizeEmail(email))
	return err
}

func (r *SQLiteRegistry) SetBan(ctx context.Context, email, reason string, unbanAt *time.Time) error {
	var at interface{}
	if unbanAt != nil {
		at = unbanAt.Format(time.RFC3339)
	}
	if reason == "" {
		reason = "Administrative Action"
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE registry_users SET is_banned = 1, ban_reason = ?, unban_at = ? WHERE email = ?",
		reason, at, NormalizeEmail(email))
	return err
}

func (r *SQLiteRegistry) ClearBan(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE registry_users SET is_banned = 0, ban_reason = NULL, unban_at = NULL WHERE email = ?",
		NormalizeEmail(email))
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
