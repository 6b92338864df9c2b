package repository

import (
	"context"

	"github.com/taskhub/taskhub-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence.
// Email lookups expect an already-normalized (trimmed, lowercased) address.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
