package user

import (
	"context"
	"strings"
	"time"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 30 * time.Minute
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, err := s.Repository.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, appErrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}

	now := pkg.SetTimestamps()
	entity := &User{
		Id:        pkg.GenerateULIDObject(),
		Name:      name,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Authenticate verifies credentials and maintains the lockout counter.
// After maxFailedLogins consecutive failures the account is locked for
// lockoutDuration; a successful login resets the counter.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	entity, err := s.Repository.GetByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	now := pkg.SetTimestamps()
	if entity.IsLocked(now) {
		return nil, appErrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(entity.Password), []byte(password)); err != nil {
		entity.FailedLoginAttempts++
		if entity.FailedLoginAttempts >= maxFailedLogins {
			lockedUntil := now.Add(lockoutDuration)
			entity.LockedUntil = &lockedUntil
			entity.FailedLoginAttempts = 0
		}
		entity.UpdatedAt = now
		if updateErr := s.Repository.Update(ctx, entity); updateErr != nil {
			return nil, updateErr
		}
		if entity.LockedUntil != nil && entity.LockedUntil.After(now) {
			return nil, appErrors.ErrAccountLocked
		}
		return nil, appErrors.ErrInvalidCredentials
	}

	if entity.FailedLoginAttempts > 0 || entity.LockedUntil != nil {
		entity.FailedLoginAttempts = 0
		entity.LockedUntil = nil
		entity.UpdatedAt = now
		if err := s.Repository.Update(ctx, entity); err != nil {
			return nil, err
		}
	}

	return entity, nil
}

func (s *Service) GetByID(ctx context.Context, userID ulid.ULID) (*User, error) {
	return s.Repository.GetByID(ctx, userID)
}

func (s *Service) Exists(ctx context.Context, userID ulid.ULID) error {
	_, err := s.Repository.GetByID(ctx, userID)
	return err
}

func (s *Service) UpdateProfile(ctx context.Context, userID ulid.ULID, name string, avatarID *ulid.ULID, avatarURL string) (*User, error) {
	entity, err := s.Repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		entity.Name = name
	}
	if avatarID != nil {
		entity.AvatarId = avatarID
		entity.AvatarURL = avatarURL
	}
	entity.UpdatedAt = pkg.SetTimestamps()

	if err := s.Repository.Update(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}
