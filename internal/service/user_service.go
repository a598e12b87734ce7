package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"loanflow/internal/cache"
	apperrors "loanflow/internal/errors"
	"loanflow/internal/model"
	"loanflow/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user lookups and administration.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// Identify resolves a token subject to the identity used for authorization.
	Identify(ctx context.Context, userID uint) (model.Identity, error)
	ListUsers(ctx context.Context, who model.Identity) ([]model.User, error)
	// EnsureAdmin creates an admin account or promotes an existing one.
	EnsureAdmin(ctx context.Context, email, password, name string) (user *model.User, created bool, err error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("loanflow:user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// PasswordHash is excluded from JSON, so it never reaches the cache.
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) Identify(ctx context.Context, userID uint) (model.Identity, error) {
	if userID == 0 {
		return model.Identity{}, apperrors.ErrNotAuthenticated
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Identity{}, apperrors.ErrNotAuthenticated
		}
		return model.Identity{}, fmt.Errorf("load user: %w", err)
	}
	return user.Identity(), nil
}

func (s *userService) ListUsers(ctx context.Context, who model.Identity) ([]model.User, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, bool, error) {
	// Promotion keeps the existing password, so only new accounts are validated.
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.IsAdmin = true
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("promote user: %w", err)
		}
		_ = s.cache.Delete(ctx, s.cacheKey(existing.ID))
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if err := validateRegistration(email, password, name); err != nil {
		return nil, false, err
	}
	digest, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user := &model.User{Email: email, PasswordHash: digest, Name: name, IsAdmin: true}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}

// requireAdmin is the authorization gate shared by every admin operation.
func requireAdmin(who model.Identity) error {
	if !who.Authenticated() {
		return apperrors.ErrNotAuthenticated
	}
	if !who.IsAdmin {
		return apperrors.ErrAdminOnly
	}
	return nil
}
