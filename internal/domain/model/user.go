package model

// Package model contains persistence-facing row shapes owned by the
// account-management subsystem. The access-control layer only reads them.

import "time"

// UserRecord is the canonical account row. Admin/agent flags and display
// fields are nullable in storage; normalization to strict values happens in
// the session validator, not here.
type UserRecord struct {
	ID          string     `db:"id"`
	Name        *string    `db:"name"`
	Email       string     `db:"email"`
	Image       *string    `db:"image"`
	Active      bool       `db:"active"`
	IsAdmin     *bool      `db:"is_admin"`
	IsAgent     *bool      `db:"is_agent"`
	WishlistID  *string    `db:"wishlist_id"`
	LastLoginAt *time.Time `db:"last_login_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
