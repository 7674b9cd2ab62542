package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
)

// Transactor runs fn inside a database transaction, committing when fn returns
// nil and rolling back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error
}

type UserRepository interface {
	// Ensure inserts the principal's row if it does not exist yet. Never fails on conflict.
	Ensure(ctx context.Context, tx *sqlx.Tx, p model.Principal) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Create inserts the principal's row, returning the existing row when already present.
	Create(ctx context.Context, p model.Principal) (*model.User, error)
	Upsert(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error)
}

type CarRepository interface {
	List(ctx context.Context, tx *sqlx.Tx, filter model.CarFilter) ([]model.Car, error)
	Count(ctx context.Context, tx *sqlx.Tx, filter model.CarFilter) (int, error)
	GetByID(ctx context.Context, id string) (*model.Car, error)
	GetDetail(ctx context.Context, tx *sqlx.Tx, id string) (*model.CarDetail, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, tx *sqlx.Tx, car *model.Car) error
	// Update applies upd to the car owned by sellerID. Returns ErrCarNotFound when no row matched.
	Update(ctx context.Context, id, sellerID string, upd model.CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id, sellerID string) error
}

type FavoriteRepository interface {
	Find(ctx context.Context, tx *sqlx.Tx, userID, carID string) (*model.Favorite, error)
	// Create returns ErrAlreadyFavorited on a duplicate pair and ErrCarNotFound for an unknown car.
	Create(ctx context.Context, tx *sqlx.Tx, userID, carID string) (*model.Favorite, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithCar, error)
}

type MessageRepository interface {
	// Create returns ErrReceiverNotFound when the receiver has no user row.
	Create(ctx context.Context, tx *sqlx.Tx, msg *model.Message) error
	GetByID(ctx context.Context, tx *sqlx.Tx, id string) (*model.Message, error)
	// MarkThreadRead flips read on the messages otherUserID sent to userID about carID.
	MarkThreadRead(ctx context.Context, tx *sqlx.Tx, carID, userID, otherUserID string) (int64, error)
	Thread(ctx context.Context, tx *sqlx.Tx, carID, userID, otherUserID string) ([]model.Message, error)
	// ListForUser returns every message userID sent or received, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.ConversationMessage, error)
}
