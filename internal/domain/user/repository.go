package user

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID ulid.ULID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
