package repository

import (
	"context"

	"github.com/taskhub/taskhub-api/internal/domain/entity"
)

// TaskRepository defines the interface for task persistence. Point operations
// only; filtering and ordering guarantees live in the application layer.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
}
