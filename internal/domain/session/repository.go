package session

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	GetByIDAndUser(ctx context.Context, sessionID, userID ulid.ULID) (*Session, error)
	GetAllByUser(ctx context.Context, userID ulid.ULID) ([]*Session, error)
	Revoke(ctx context.Context, sessionID ulid.ULID) error
	RevokeAllByUser(ctx context.Context, userID ulid.ULID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
