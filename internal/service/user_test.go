package service

import (
	"context"
	"errors"
	"testing"

	"carmarket/internal/model"
)

func TestUserService_GetOrCreate(t *testing.T) {
	t.Run("existing row is returned", func(t *testing.T) {
		name := "Alice"
		repo := &mockUserRepository{
			getByIDFn: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, FullName: &name}, nil
			},
			createFn: func(ctx context.Context, p model.Principal) (*model.User, error) {
				t.Fatal("existing user must not be re-created")
				return nil, nil
			},
		}

		u, err := NewUserService(repo).GetOrCreate(context.Background(), alice)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if u.FullName == nil || *u.FullName != name {
			t.Errorf("full name = %v", u.FullName)
		}
	})

	t.Run("missing row is created from the principal", func(t *testing.T) {
		var created model.Principal
		repo := &mockUserRepository{
			createFn: func(ctx context.Context, p model.Principal) (*model.User, error) {
				created = p
				return &model.User{ID: p.ID, Email: p.Email}, nil
			},
		}

		u, err := NewUserService(repo).GetOrCreate(context.Background(), alice)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if created != alice || u.Email != alice.Email {
			t.Errorf("created = %+v, user = %+v", created, u)
		}
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		repo := &mockUserRepository{
			getByIDFn: func(ctx context.Context, id string) (*model.User, error) { return nil, boom },
		}

		_, err := NewUserService(repo).GetOrCreate(context.Background(), alice)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want wrapped %v", err, boom)
		}
	})
}

func TestUserService_Update_PassesPartialRequest(t *testing.T) {
	phone := "555-0100"
	var got *model.UpdateProfileRequest
	repo := &mockUserRepository{
		upsertFn: func(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
			got = req
			return &model.User{ID: p.ID, Phone: req.Phone}, nil
		},
	}

	u, err := NewUserService(repo).Update(context.Background(), alice, &model.UpdateProfileRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.FullName != nil || got.Bio != nil {
		t.Error("absent fields should reach the store as nil")
	}
	if u.Phone == nil || *u.Phone != phone {
		t.Errorf("phone = %v", u.Phone)
	}
}
