package service

import (
	"context"
	"log/slog"
	"time"

	"userapp/internal/core/domain"
	"userapp/internal/core/port"
)

// UserService owns timestamps and orchestrates the repository. It never
// inspects driver errors; the repository surfaces domain outcomes.
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, name, email string, age *int) (domain.User, error) {
	now := time.Now().UTC()

	newUser := domain.User{
		Name:      name,
		Email:     email,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	user, err := s.repo.Create(ctx, newUser)

	if err != nil {
		slog.Error("Repository create failed", "error", err, "email", email)
		return domain.User{}, err
	}

	return user, nil
}

// Update applies only the fields present in the patch. UpdatedAt is
// refreshed even when the patch is empty.
func (s *UserService) Update(ctx context.Context, id int, patch domain.UserPatch) (domain.User, error) {
	user, err := s.repo.Update(ctx, id, patch, time.Now().UTC())

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int) (domain.User, error) {
	user, err := s.repo.Delete(ctx, id)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
