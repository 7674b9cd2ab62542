package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"carmarket/internal/model"
)

func TestFavoriteService_Toggle_Parity(t *testing.T) {
	favs := newMemoryFavorites()
	users := &mockUserRepository{}
	svc := NewFavoriteService(favs, users, &mockTransactor{})
	carID := uuid.NewString()

	for i := 1; i <= 4; i++ {
		resp, err := svc.Toggle(context.Background(), alice, carID)
		if err != nil {
			t.Fatalf("toggle %d: unexpected error: %v", i, err)
		}
		want := i%2 == 1
		if resp.Favorited != want {
			t.Errorf("toggle %d: favorited = %v, want %v", i, resp.Favorited, want)
		}
		if _, err := favs.Find(context.Background(), nil, alice.ID, carID); (err == nil) != want {
			t.Errorf("toggle %d: stored state does not match response", i)
		}
	}

	if len(users.ensured) != 4 {
		t.Errorf("user ensured %d times, want once per toggle", len(users.ensured))
	}
}

func TestFavoriteService_Toggle_ConcurrentInsertCountsAsFavorited(t *testing.T) {
	favs := newMemoryFavorites()
	favs.createErr = model.ErrAlreadyFavorited
	svc := NewFavoriteService(favs, &mockUserRepository{}, &mockTransactor{})

	resp, err := svc.Toggle(context.Background(), alice, uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Favorited {
		t.Error("unique violation on insert should report favorited=true")
	}
}

func TestFavoriteService_Toggle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		carID   string
		create  error
		wantErr error
	}{
		{"empty car id", "  ", nil, model.ErrInvalidInput},
		{"malformed car id", "abc", nil, model.ErrCarNotFound},
		{"unknown car", uuid.NewString(), model.ErrCarNotFound, model.ErrCarNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favs := newMemoryFavorites()
			favs.createErr = tt.create
			svc := NewFavoriteService(favs, &mockUserRepository{}, &mockTransactor{})

			_, err := svc.Toggle(context.Background(), alice, tt.carID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFavoriteService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewFavoriteService(newMemoryFavorites(), &mockUserRepository{}, &mockTransactor{})

	favs, err := svc.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if favs == nil {
		t.Error("expected empty slice, got nil")
	}
}
