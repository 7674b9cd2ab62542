package service

import (
	"context"
	"errors"
	"fmt"

	"carmarket/internal/model"
	"carmarket/internal/repository"
)

// UserService handles business logic for profile operations
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetOrCreate returns p's profile, creating it from the session claims on first access.
func (s *UserService) GetOrCreate(ctx context.Context, p model.Principal) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user, err = s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update upserts the editable profile fields. On insert id and email come from p.
func (s *UserService) Update(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.Upsert(ctx, p, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
