package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"carmarket/internal/model"
)

type stubUserService struct {
	getOrCreateFn func(ctx context.Context, p model.Principal) (*model.User, error)
	updateFn      func(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error)
}

func (s *stubUserService) GetOrCreate(ctx context.Context, p model.Principal) (*model.User, error) {
	return s.getOrCreateFn(ctx, p)
}

func (s *stubUserService) Update(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
	return s.updateFn(ctx, p, req)
}

func TestUserHandler_Get(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		getOrCreateFn: func(_ context.Context, p model.Principal) (*model.User, error) {
			return &model.User{ID: p.ID, Email: p.Email}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/user", "", &alice, nil))
	assertStatus(t, rec, http.StatusOK)

	var u model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID != alice.ID || u.Email != alice.Email {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestUserHandler_Update(t *testing.T) {
	var got *model.UpdateProfileRequest
	h := NewUserHandler(&stubUserService{
		updateFn: func(_ context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
			got = req
			return &model.User{ID: p.ID, Phone: req.Phone}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/user", `{"phone":"555-0100"}`, &alice, nil))
	assertStatus(t, rec, http.StatusOK)
	if got.Phone == nil || *got.Phone != "555-0100" {
		t.Errorf("phone not decoded: %+v", got)
	}
	if got.FullName != nil || got.Bio != nil {
		t.Errorf("absent fields should stay nil: %+v", got)
	}
}

func TestUserHandler_Errors(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		getOrCreateFn: func(context.Context, model.Principal) (*model.User, error) {
			return nil, errors.New("db down")
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/user", "", &alice, nil))
	assertStatus(t, rec, http.StatusInternalServerError)

	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/user", `[1,2]`, &alice, nil))
	assertStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/user", "", nil, nil))
	assertStatus(t, rec, http.StatusUnauthorized)
}
