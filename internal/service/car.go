package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
	"carmarket/internal/queue"
	"carmarket/internal/repository"
)

// CarService serves the listing query and mutation operations.
type CarService struct {
	cars      repository.CarRepository
	users     repository.UserRepository
	tx        repository.Transactor
	publisher queue.Publisher
}

func NewCarService(
	cars repository.CarRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	publisher queue.Publisher,
) *CarService {
	return &CarService{
		cars:      cars,
		users:     users,
		tx:        tx,
		publisher: publisher,
	}
}

// snapshotRead makes page and count observe the same committed state.
var snapshotRead = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// List returns one page of listings matching filter plus the total match count.
func (s *CarService) List(ctx context.Context, filter model.CarFilter) (*model.CarListResponse, error) {
	if filter.Page < 1 {
		filter.Page = model.DefaultCarPage
	}
	if filter.Limit < 1 {
		filter.Limit = model.DefaultCarLimit
	}
	if filter.Limit > model.MaxCarLimit {
		filter.Limit = model.MaxCarLimit
	}

	var cars []model.Car
	var total int
	err := s.tx.WithinTx(ctx, snapshotRead, func(tx *sqlx.Tx) error {
		var err error
		if cars, err = s.cars.List(ctx, tx, filter); err != nil {
			return err
		}
		total, err = s.cars.Count(ctx, tx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	if cars == nil {
		cars = []model.Car{}
	}

	return &model.CarListResponse{
		Cars:       cars,
		Total:      total,
		Page:       filter.Page,
		TotalPages: model.TotalPages(total, filter.Limit),
	}, nil
}

// GetByID returns a listing with its seller profile and favorites, read from one snapshot.
func (s *CarService) GetByID(ctx context.Context, id string) (*model.CarDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrCarNotFound
	}

	var detail *model.CarDetail
	err := s.tx.WithinTx(ctx, snapshotRead, func(tx *sqlx.Tx) error {
		var err error
		detail, err = s.cars.GetDetail(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrCarNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get car: %w", err)
	}
	return detail, nil
}

// Create stores a new listing owned by p, creating p's user row in the same transaction.
func (s *CarService) Create(ctx context.Context, p model.Principal, req *model.CreateCarRequest) (*model.Car, error) {
	car, err := newCarFromRequest(req)
	if err != nil {
		return nil, err
	}
	car.ID = uuid.NewString()
	car.SellerID = p.ID

	err = s.tx.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := s.users.Ensure(ctx, tx, p); err != nil {
			return err
		}
		return s.cars.Create(ctx, tx, car)
	})
	if err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}

	s.publish(ctx, queue.NewCarCreatedEvent(car.ID, car.SellerID))
	return car, nil
}

// loadOwned resolves id and checks that p owns it. NotFound is reported before Forbidden.
func (s *CarService) loadOwned(ctx context.Context, p model.Principal, id string) (*model.Car, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrCarNotFound
	}
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.SellerID != p.ID {
		return nil, model.ErrNotCarOwner
	}
	return car, nil
}

// Update changes only the fields present in req.
func (s *CarService) Update(ctx context.Context, p model.Principal, id string, req *model.UpdateCarRequest) (*model.Car, error) {
	if _, err := s.loadOwned(ctx, p, id); err != nil {
		return nil, err
	}

	upd, err := parseCarUpdate(req)
	if err != nil {
		return nil, err
	}

	car, err := s.cars.Update(ctx, id, p.ID, upd)
	if err != nil {
		if errors.Is(err, model.ErrCarNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update car: %w", err)
	}
	return car, nil
}

// Delete removes the listing. Favorites go with it; messages about it are kept.
func (s *CarService) Delete(ctx context.Context, p model.Principal, id string) error {
	if _, err := s.loadOwned(ctx, p, id); err != nil {
		return err
	}

	if err := s.cars.Delete(ctx, id, p.ID); err != nil {
		if errors.Is(err, model.ErrCarNotFound) {
			return err
		}
		return fmt.Errorf("delete car: %w", err)
	}

	s.publish(ctx, queue.NewCarDeletedEvent(id, p.ID))
	return nil
}

func (s *CarService) publish(ctx context.Context, event queue.Event) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamMarketplace, event); err != nil {
		log.Printf("[CarService] Failed to publish %s event: car=%s err=%v", event.Type, event.CarID, err)
	}
}
