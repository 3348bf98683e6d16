// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account row. PasswordHash and RefreshToken never leave the
// server; the HTTP layer converts a User into a public DTO first.
type User struct {
	ID            string
	UserName      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	// RefreshToken is the single currently valid refresh token, nil when
	// the user is logged out.
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
