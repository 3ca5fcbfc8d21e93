package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/domain/model"
	"github.com/wayfarer-travel/wayfarer-go/internal/data/pgxutil"
	"github.com/wayfarer-travel/wayfarer-go/internal/ports"
)

const userColumns = `id, name, email, image, active, is_admin, is_agent, wishlist_id, last_login_at, created_at, updated_at`

// UserDirectory provides database operations over the users table. It
// implements ports.UserDirectory.
type UserDirectory struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

// NewUserDirectory creates a UserDirectory with the real time provider.
func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserDirectoryWithTimeProvider creates a UserDirectory with a custom time
// provider (useful for tests).
func NewUserDirectoryWithTimeProvider(db *sql.DB, tp TimeProvider) *UserDirectory {
	return &UserDirectory{DB: db, timeProvider: tp}
}

// ByID retrieves a user row by id.
func (r *UserDirectory) ByID(ctx context.Context, id string) (*model.UserRecord, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		"failed to get user by id", id)
}

// ByEmail retrieves a user row by email.
func (r *UserDirectory) ByEmail(ctx context.Context, email string) (*model.UserRecord, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		"failed to get user by email", email)
}

// EnsureUser returns the row matching the identity's email, creating it on
// first sign-in. A concurrent create resolves to the existing row.
func (r *UserDirectory) EnsureUser(ctx context.Context, identity domainauth.Identity) (*model.UserRecord, error) {
	if strings.TrimSpace(identity.Email) == "" {
		return nil, errors.New("identity email is required")
	}

	existing, err := r.ByEmail(ctx, identity.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrUserNotFound) {
		return nil, err
	}

	created, createErr := r.create(ctx, identity)
	if createErr != nil {
		var pgErr *pgconn.PgError
		if errors.As(createErr, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Lost a create race; the row exists now.
			return r.ByEmail(ctx, identity.Email)
		}
		return nil, fmt.Errorf("create user: %w", createErr)
	}
	return created, nil
}

// TouchLastLogin stamps the user's last-login time. Callers treat failure as
// non-fatal.
func (r *UserDirectory) TouchLastLogin(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`,
			now, id)
		if err != nil {
			return fmt.Errorf("touch last login: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrUserNotFound
		}
		return nil
	})
}

func (r *UserDirectory) create(ctx context.Context, identity domainauth.Identity) (*model.UserRecord, error) {
	now := r.timeProvider.Now().UTC()
	var out model.UserRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				id, name, email, image, active, created_at, updated_at
			) VALUES (
				$1, NULLIF($2, ''), $3, NULLIF($4, ''), TRUE, $5, $5
			) RETURNING `+userColumns,
			uuid.New().String(),
			identity.Name,
			strings.ToLower(strings.TrimSpace(identity.Email)),
			identity.Image,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserRecord])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserDirectory) getByQuery(ctx context.Context, query, msg string, arg any) (*model.UserRecord, error) {
	var out model.UserRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserRecord])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return &out, nil
}
