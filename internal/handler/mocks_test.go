package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"carmarket/internal/model"
	"carmarket/internal/transport/http/middleware"
)

var alice = model.Principal{ID: "11111111-1111-1111-1111-111111111111", Email: "alice@example.com"}

type stubCarService struct {
	listFn    func(ctx context.Context, filter model.CarFilter) (*model.CarListResponse, error)
	getByIDFn func(ctx context.Context, id string) (*model.CarDetail, error)
	createFn  func(ctx context.Context, p model.Principal, req *model.CreateCarRequest) (*model.Car, error)
	updateFn  func(ctx context.Context, p model.Principal, id string, req *model.UpdateCarRequest) (*model.Car, error)
	deleteFn  func(ctx context.Context, p model.Principal, id string) error
}

func (s *stubCarService) List(ctx context.Context, filter model.CarFilter) (*model.CarListResponse, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCarService) GetByID(ctx context.Context, id string) (*model.CarDetail, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubCarService) Create(ctx context.Context, p model.Principal, req *model.CreateCarRequest) (*model.Car, error) {
	return s.createFn(ctx, p, req)
}

func (s *stubCarService) Update(ctx context.Context, p model.Principal, id string, req *model.UpdateCarRequest) (*model.Car, error) {
	return s.updateFn(ctx, p, id, req)
}

func (s *stubCarService) Delete(ctx context.Context, p model.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

type stubFavoriteService struct {
	toggleFn func(ctx context.Context, p model.Principal, carID string) (*model.ToggleFavoriteResponse, error)
	listFn   func(ctx context.Context, p model.Principal) ([]model.FavoriteWithCar, error)
}

func (s *stubFavoriteService) Toggle(ctx context.Context, p model.Principal, carID string) (*model.ToggleFavoriteResponse, error) {
	return s.toggleFn(ctx, p, carID)
}

func (s *stubFavoriteService) List(ctx context.Context, p model.Principal) ([]model.FavoriteWithCar, error) {
	return s.listFn(ctx, p)
}

type stubMessageService struct {
	sendFn          func(ctx context.Context, p model.Principal, req *model.SendMessageRequest) (*model.Message, error)
	threadFn        func(ctx context.Context, p model.Principal, carID, otherUserID string) ([]model.Message, error)
	conversationsFn func(ctx context.Context, p model.Principal) ([]model.ConversationSummary, error)
}

func (s *stubMessageService) Send(ctx context.Context, p model.Principal, req *model.SendMessageRequest) (*model.Message, error) {
	return s.sendFn(ctx, p, req)
}

func (s *stubMessageService) Thread(ctx context.Context, p model.Principal, carID, otherUserID string) ([]model.Message, error) {
	return s.threadFn(ctx, p, carID, otherUserID)
}

func (s *stubMessageService) Conversations(ctx context.Context, p model.Principal) ([]model.ConversationSummary, error) {
	return s.conversationsFn(ctx, p)
}

// newRequest builds a request carrying p (when non-nil) and optional chi URL params.
func newRequest(method, target, body string, p *model.Principal, params map[string]string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	ctx := req.Context()
	if p != nil {
		ctx = middleware.WithPrincipal(ctx, *p)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body=%s)", rec.Code, want, rec.Body.String())
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), `"code":"`+want+`"`) {
		t.Fatalf("expected error code %s, got body %s", want, rec.Body.String())
	}
}
