package session_test

import (
	"context"
	"testing"
	"time"

	"Hishab/internal/domain/session"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
)

// memorySessions stores sessions by token hash the way the real table does.
type memorySessions struct {
	byHash map[string]*session.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{byHash: make(map[string]*session.Session)}
}

func (m *memorySessions) Create(ctx context.Context, s *session.Session) error {
	m.byHash[s.TokenHash] = s
	return nil
}

func (m *memorySessions) GetByTokenHash(ctx context.Context, tokenHash string) (*session.Session, error) {
	if s, ok := m.byHash[tokenHash]; ok {
		return s, nil
	}
	return nil, appErrors.ErrSessionNotFound
}

func (m *memorySessions) GetByIDAndUser(ctx context.Context, sessionID, userID ulid.ULID) (*session.Session, error) {
	for _, s := range m.byHash {
		if s.Id == sessionID && s.UserId == userID {
			return s, nil
		}
	}
	return nil, appErrors.ErrSessionNotFound
}

func (m *memorySessions) GetAllByUser(ctx context.Context, userID ulid.ULID) ([]*session.Session, error) {
	var out []*session.Session
	for _, s := range m.byHash {
		if s.UserId == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySessions) Revoke(ctx context.Context, sessionID ulid.ULID) error {
	for _, s := range m.byHash {
		if s.Id == sessionID {
			now := time.Now()
			s.RevokedAt = &now
			return nil
		}
	}
	return appErrors.ErrSessionNotFound
}

func (m *memorySessions) RevokeAllByUser(ctx context.Context, userID ulid.ULID) error {
	now := time.Now()
	for _, s := range m.byHash {
		if s.UserId == userID {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (m *memorySessions) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	repo := newMemorySessions()
	svc := session.NewService(repo, time.Hour)

	issued, err := svc.Issue(ctx, userID, "phone", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected a token")
	}
	if issued.Session.TokenHash == issued.Token {
		t.Fatalf("plaintext token must never be stored")
	}

	validated, err := svc.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validated.UserId != userID {
		t.Fatalf("validated session belongs to the wrong user")
	}

	if _, err := svc.Validate(ctx, "not-a-token"); err == nil {
		t.Fatalf("unknown token must be rejected")
	}
}

func TestValidateRejectsExpiredAndRevoked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	repo := newMemorySessions()

	t.Run("expired", func(t *testing.T) {
		svc := session.NewService(repo, -time.Minute)
		issued, err := svc.Issue(ctx, userID, "", "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Validate(ctx, issued.Token); err == nil {
			t.Fatalf("expired session must be rejected")
		}
	})

	t.Run("revoked", func(t *testing.T) {
		svc := session.NewService(repo, time.Hour)
		issued, err := svc.Issue(ctx, userID, "", "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Revoke(ctx, issued.Token); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Validate(ctx, issued.Token); err == nil {
			t.Fatalf("revoked session must be rejected")
		}
	})
}

func TestListForUserFiltersInactive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	repo := newMemorySessions()
	svc := session.NewService(repo, time.Hour)

	first, err := svc.Issue(ctx, userID, "phone", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Issue(ctx, userID, "laptop", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RevokeByID(ctx, first.Session.Id, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := svc.ListForUser(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active session, got %d", len(active))
	}
	if active[0].DeviceName != "laptop" {
		t.Fatalf("wrong session survived: %s", active[0].DeviceName)
	}
}
