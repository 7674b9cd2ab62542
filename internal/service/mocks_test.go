package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
	"carmarket/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================
//
// Each mock exposes one function field per method so a test only defines the
// behavior it cares about. Unset fields fall back to a harmless default.

type mockTransactor struct {
	calls    int
	lastOpts *sql.TxOptions
}

func (m *mockTransactor) WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	m.calls++
	m.lastOpts = opts
	return fn(nil)
}

type mockUserRepository struct {
	ensureFn  func(ctx context.Context, p model.Principal) error
	getByIDFn func(ctx context.Context, id string) (*model.User, error)
	createFn  func(ctx context.Context, p model.Principal) (*model.User, error)
	upsertFn  func(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error)

	ensured []string
}

func (m *mockUserRepository) Ensure(ctx context.Context, _ *sqlx.Tx, p model.Principal) error {
	m.ensured = append(m.ensured, p.ID)
	if m.ensureFn != nil {
		return m.ensureFn(ctx, p)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, p model.Principal) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return &model.User{ID: p.ID, Email: p.Email}, nil
}

func (m *mockUserRepository) Upsert(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p, req)
	}
	return &model.User{ID: p.ID, Email: p.Email}, nil
}

type mockCarRepository struct {
	listFn      func(ctx context.Context, filter model.CarFilter) ([]model.Car, error)
	countFn     func(ctx context.Context, filter model.CarFilter) (int, error)
	getByIDFn   func(ctx context.Context, id string) (*model.Car, error)
	getDetailFn func(ctx context.Context, id string) (*model.CarDetail, error)
	existsFn    func(ctx context.Context, id string) (bool, error)
	createFn    func(ctx context.Context, car *model.Car) error
	updateFn    func(ctx context.Context, id, sellerID string, upd model.CarUpdate) (*model.Car, error)
	deleteFn    func(ctx context.Context, id, sellerID string) error

	updateCalls int
	deleteCalls int
}

func (m *mockCarRepository) List(ctx context.Context, _ *sqlx.Tx, filter model.CarFilter) ([]model.Car, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockCarRepository) Count(ctx context.Context, _ *sqlx.Tx, filter model.CarFilter) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockCarRepository) GetByID(ctx context.Context, id string) (*model.Car, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCarNotFound
}

func (m *mockCarRepository) GetDetail(ctx context.Context, _ *sqlx.Tx, id string) (*model.CarDetail, error) {
	if m.getDetailFn != nil {
		return m.getDetailFn(ctx, id)
	}
	return nil, model.ErrCarNotFound
}

func (m *mockCarRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockCarRepository) Create(ctx context.Context, _ *sqlx.Tx, car *model.Car) error {
	if m.createFn != nil {
		return m.createFn(ctx, car)
	}
	return nil
}

func (m *mockCarRepository) Update(ctx context.Context, id, sellerID string, upd model.CarUpdate) (*model.Car, error) {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, id, sellerID, upd)
	}
	return &model.Car{ID: id, SellerID: sellerID}, nil
}

func (m *mockCarRepository) Delete(ctx context.Context, id, sellerID string) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, sellerID)
	}
	return nil
}

// memoryFavorites is a tiny in-memory favorites table keyed by user and car.
type memoryFavorites struct {
	rows      map[[2]string]model.Favorite
	createErr error
	listFn    func(ctx context.Context, userID string) ([]model.FavoriteWithCar, error)
}

func newMemoryFavorites() *memoryFavorites {
	return &memoryFavorites{rows: make(map[[2]string]model.Favorite)}
}

func (m *memoryFavorites) Find(_ context.Context, _ *sqlx.Tx, userID, carID string) (*model.Favorite, error) {
	f, ok := m.rows[[2]string{userID, carID}]
	if !ok {
		return nil, model.ErrFavoriteNotFound
	}
	return &f, nil
}

func (m *memoryFavorites) Create(_ context.Context, _ *sqlx.Tx, userID, carID string) (*model.Favorite, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := [2]string{userID, carID}
	if _, ok := m.rows[key]; ok {
		return nil, model.ErrAlreadyFavorited
	}
	f := model.Favorite{ID: userID + ":" + carID, UserID: userID, CarID: carID}
	m.rows[key] = f
	return &f, nil
}

func (m *memoryFavorites) Delete(_ context.Context, _ *sqlx.Tx, id string) error {
	for key, f := range m.rows {
		if f.ID == id {
			delete(m.rows, key)
			return nil
		}
	}
	return model.ErrFavoriteNotFound
}

func (m *memoryFavorites) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithCar, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

// memoryMessages stores messages in insertion order and answers thread queries.
type memoryMessages struct {
	rows      []model.Message
	createErr error
}

func (m *memoryMessages) Create(_ context.Context, _ *sqlx.Tx, msg *model.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memoryMessages) GetByID(_ context.Context, _ *sqlx.Tx, id string) (*model.Message, error) {
	for _, msg := range m.rows {
		if msg.ID == id {
			out := msg
			out.Sender = &model.Participant{ID: msg.SenderID}
			out.Receiver = &model.Participant{ID: msg.ReceiverID}
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryMessages) MarkThreadRead(_ context.Context, _ *sqlx.Tx, carID, userID, otherUserID string) (int64, error) {
	var n int64
	for i := range m.rows {
		r := &m.rows[i]
		if r.CarID == carID && r.ReceiverID == userID && r.SenderID == otherUserID && !r.Read {
			r.Read = true
			n++
		}
	}
	return n, nil
}

func (m *memoryMessages) Thread(_ context.Context, _ *sqlx.Tx, carID, userID, otherUserID string) ([]model.Message, error) {
	var out []model.Message
	for _, r := range m.rows {
		if r.CarID != carID {
			continue
		}
		if (r.SenderID == userID && r.ReceiverID == otherUserID) || (r.SenderID == otherUserID && r.ReceiverID == userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryMessages) ListForUser(_ context.Context, userID string) ([]model.ConversationMessage, error) {
	var out []model.ConversationMessage
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.SenderID == userID || r.ReceiverID == userID {
			out = append(out, model.ConversationMessage{Message: r})
		}
	}
	return out, nil
}

type mockPublisher struct {
	err    error
	events []queue.Event
}

func (m *mockPublisher) Publish(_ context.Context, _ string, event queue.Event) (string, error) {
	m.events = append(m.events, event)
	if m.err != nil {
		return "", m.err
	}
	return "1-0", nil
}
