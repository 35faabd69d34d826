package port

import (
	"context"
	"time"

	"userapp/internal/core/domain"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, id int, patch domain.UserPatch, updatedAt time.Time) (domain.User, error)
	Delete(ctx context.Context, id int) (domain.User, error)
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int) (domain.User, error)
	Create(ctx context.Context, name, email string, age *int) (domain.User, error)
	Update(ctx context.Context, id int, patch domain.UserPatch) (domain.User, error)
	Delete(ctx context.Context, id int) (domain.User, error)
}
