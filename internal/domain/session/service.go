package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
	TTL        time.Duration
}

func NewService(repo Repository, ttl time.Duration) *Service {
	return &Service{Repository: repo, TTL: ttl}
}

type IssuedSession struct {
	Session *Session
	Token   string
}

func (s *Service) Issue(ctx context.Context, userID ulid.ULID, deviceName, ip, userAgent string) (*IssuedSession, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	now := pkg.SetTimestamps()
	entity := &Session{
		Id:         pkg.GenerateULIDObject(),
		UserId:     userID,
		TokenHash:  hashToken(token),
		DeviceName: deviceName,
		IP:         ip,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(s.TTL),
		CreatedAt:  now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	return &IssuedSession{Session: entity, Token: token}, nil
}

func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized
	}

	entity, err := s.Repository.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, appErrors.ErrSessionNotFound
	}

	if !entity.IsActive(pkg.SetTimestamps()) {
		return nil, appErrors.ErrSessionNotFound
	}

	return entity, nil
}

func (s *Service) Revoke(ctx context.Context, token string) error {
	entity, err := s.Repository.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return appErrors.ErrSessionNotFound
	}
	return s.Repository.Revoke(ctx, entity.Id)
}

func (s *Service) RevokeByID(ctx context.Context, sessionID, userID ulid.ULID) error {
	entity, err := s.Repository.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		return appErrors.ErrSessionNotFound
	}
	return s.Repository.Revoke(ctx, entity.Id)
}

func (s *Service) RevokeAll(ctx context.Context, userID ulid.ULID) error {
	return s.Repository.RevokeAllByUser(ctx, userID)
}

func (s *Service) ListForUser(ctx context.Context, userID ulid.ULID) ([]*Session, error) {
	sessions, err := s.Repository.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := pkg.SetTimestamps()
	active := make([]*Session, 0, len(sessions))
	for _, entity := range sessions {
		if entity.IsActive(now) {
			active = append(active, entity)
		}
	}
	return active, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
