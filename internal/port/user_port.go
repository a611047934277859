package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type UserRepository interface {
	InsertUser(ctx context.Context, user domain.User) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}
