package model

import (
	"errors"
	"time"
)

// User is the local profile row mirroring an identity-provider principal.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  *string   `db:"full_name" json:"fullName"`
	Phone     *string   `db:"phone" json:"phone"`
	Location  *string   `db:"location" json:"location"`
	Bio       *string   `db:"bio" json:"bio"`
	Avatar    *string   `db:"avatar" json:"avatar"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SellerSummary is the reduced seller projection attached to listing results.
type SellerSummary struct {
	ID       string  `db:"id" json:"id"`
	FullName *string `db:"full_name" json:"fullName"`
	Avatar   *string `db:"avatar" json:"avatar"`
	Location *string `db:"location" json:"location"`
}

// SellerProfile is the extended seller projection shown on a single listing.
type SellerProfile struct {
	ID        string    `db:"id" json:"id"`
	FullName  *string   `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	Avatar    *string   `db:"avatar" json:"avatar"`
	Location  *string   `db:"location" json:"location"`
	Bio       *string   `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Participant is the projection of a message sender or receiver.
type Participant struct {
	ID       string  `db:"id" json:"id"`
	FullName *string `db:"full_name" json:"fullName"`
	Avatar   *string `db:"avatar" json:"avatar"`
	Email    string  `db:"email" json:"email,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields. A nil field is left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")
)
