package model

import (
	"errors"
	"time"
)

// Favorite records that a user bookmarked a car. (UserID, CarID) is unique.
type Favorite struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	CarID     string    `db:"car_id" json:"carId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// FavoriteWithCar is a favorite joined with its listing and the listing's seller.
type FavoriteWithCar struct {
	Favorite
	Car Car `db:"car" json:"car"`
}

// FavoriteRef is the favorite projection embedded in a car detail.
type FavoriteRef struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"userId"`
}

// ToggleFavoriteRequest is the request body for POST /favorites.
type ToggleFavoriteRequest struct {
	CarID string `json:"carId"`
}

// ToggleFavoriteResponse reports the state after the toggle.
type ToggleFavoriteResponse struct {
	Favorited bool `json:"favorited"`
}

var (
	// ErrAlreadyFavorited is returned by the store when the (user, car) pair exists.
	ErrAlreadyFavorited = errors.New("car already favorited")

	// ErrFavoriteNotFound is returned when there is no favorite to remove.
	ErrFavoriteNotFound = errors.New("favorite not found")
)
