package partner

import (
	"context"
	"strings"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, partner *Partner) error {
	partner.Name = strings.TrimSpace(partner.Name)
	if len(partner.Name) < 2 {
		return appErrors.NewValidationError("name", "Name must be at least 2 characters")
	}

	partner.Id = pkg.GenerateULIDObject()
	now := pkg.SetTimestamps()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	partner.TotalContributed = 0

	return s.Repository.Create(ctx, partner)
}

func (s *Service) Update(ctx context.Context, partner *Partner) error {
	stored, err := s.GetByID(ctx, partner.Id, partner.UserId)
	if err != nil {
		return err
	}

	if partner.Name != "" {
		stored.Name = strings.TrimSpace(partner.Name)
		if len(stored.Name) < 2 {
			return appErrors.NewValidationError("name", "Name must be at least 2 characters")
		}
	}
	if partner.Email != "" {
		stored.Email = partner.Email
	}
	if partner.Phone != "" {
		stored.Phone = partner.Phone
	}
	if partner.Notes != "" {
		stored.Notes = partner.Notes
	}
	if partner.AvatarId != nil {
		stored.AvatarId = partner.AvatarId
		stored.AvatarURL = partner.AvatarURL
	}
	stored.UpdatedAt = pkg.SetTimestamps()

	return s.Repository.Update(ctx, stored)
}

func (s *Service) GetByID(ctx context.Context, partnerID, userID ulid.ULID) (*Partner, error) {
	partner, err := s.Repository.GetByIDAndUser(ctx, partnerID, userID)
	if err != nil {
		return nil, appErrors.ErrPartnerNotFound
	}
	return partner, nil
}

func (s *Service) Exists(ctx context.Context, partnerID, userID ulid.ULID) error {
	_, err := s.GetByID(ctx, partnerID, userID)
	return err
}

func (s *Service) GetTotal(ctx context.Context, partnerID, userID ulid.ULID) (float64, error) {
	partner, err := s.GetByID(ctx, partnerID, userID)
	if err != nil {
		return 0, err
	}
	return partner.TotalContributed, nil
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Partner, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	return s.Repository.GetAll(ctx, userID, filters, pagination)
}

// Leaderboard returns partners ranked by total contributed, along with the
// grand total across all of the user's partners.
func (s *Service) Leaderboard(ctx context.Context, userID ulid.ULID, limit int) ([]*Partner, float64, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.Repository.GetLeaderboard(ctx, userID, limit)
}
