package ledger

import (
	"context"
	"errors"
	"math"
	"time"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// fastUndoWindow marks undos issued right after the original as reversing
// rather than audited corrections. Informational only.
const fastUndoWindow = 5 * time.Second

type Service struct {
	Repository     Repository
	PartnerService PartnerService
}

func NewService(repo Repository, partners PartnerService) *Service {
	return &Service{Repository: repo, PartnerService: partners}
}

type ContributionInput struct {
	PartnerID       ulid.ULID
	Amount          float64
	Category        string
	Context         string
	Currency        string
	TransactionDate *time.Time
	ReceiptID       *ulid.ULID
	IdempotencyKey  *string
}

type ContributionResult struct {
	Transaction  *Transaction
	PartnerTotal float64
	Duplicate    bool
}

// CreateContribution appends a contribution row and increments the partner
// total in one atomic unit. When an idempotency key is supplied the call is
// safe to retry: a reused key returns the original row marked duplicate and
// applies no effect.
func (s *Service) CreateContribution(ctx context.Context, userID ulid.ULID, input *ContributionInput) (*ContributionResult, error) {
	if input.Amount <= 0 {
		return nil, appErrors.NewValidationError("amount", "Amount must be greater than 0")
	}

	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		if prior, err := s.Repository.GetByIdempotencyKey(ctx, userID, *input.IdempotencyKey); err == nil && prior != nil {
			return s.duplicateResult(ctx, userID, prior)
		}
	} else {
		input.IdempotencyKey = nil
	}

	if err := s.PartnerService.Exists(ctx, input.PartnerID, userID); err != nil {
		return nil, err
	}

	entity := s.buildContribution(userID, input)

	total, err := s.Repository.CreateWithPartnerTotal(ctx, entity)
	if err != nil {
		// Lost the unique-index race on the key: the winner's row is
		// committed, return it as the duplicate result.
		if errors.Is(err, ErrDuplicateIdempotencyKey) && input.IdempotencyKey != nil {
			prior, lookupErr := s.Repository.GetByIdempotencyKey(ctx, userID, *input.IdempotencyKey)
			if lookupErr != nil || prior == nil {
				return nil, appErrors.NewAtomicityFailure(err)
			}
			return s.duplicateResult(ctx, userID, prior)
		}
		if errors.Is(err, ErrPartnerMissing) {
			return nil, appErrors.ErrPartnerNotFound
		}
		return nil, err
	}

	return &ContributionResult{Transaction: entity, PartnerTotal: total}, nil
}

func (s *Service) buildContribution(userID ulid.ULID, input *ContributionInput) *Transaction {
	now := pkg.SetTimestamps()
	date := now
	if input.TransactionDate != nil {
		date = *input.TransactionDate
	}
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Transaction{
		Id:              pkg.GenerateULIDObject(),
		UserId:          userID,
		PartnerId:       input.PartnerID,
		Amount:          input.Amount,
		Type:            TypeContribution,
		Category:        input.Category,
		Context:         input.Context,
		Currency:        currency,
		TransactionDate: date,
		ReceiptId:       input.ReceiptID,
		IdempotencyKey:  input.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *Service) duplicateResult(ctx context.Context, userID ulid.ULID, prior *Transaction) (*ContributionResult, error) {
	total, err := s.PartnerService.GetTotal(ctx, prior.PartnerId, userID)
	if err != nil {
		return nil, err
	}
	return &ContributionResult{Transaction: prior, PartnerTotal: total, Duplicate: true}, nil
}

type AmendInput struct {
	Amount          *float64
	PartnerID       *ulid.ULID
	Category        *string
	Context         *string
	TransactionDate *time.Time
	ReceiptID       *ulid.ULID
}

type AmendResult struct {
	Transaction  *Transaction
	Adjustment   *Transaction
	PartnerTotal float64
}

// AmendTransaction corrects a contribution without rewriting its settled
// amount. Non-monetary fields are edited in place; an amount change always
// produces a compensating adjustment row carrying the delta; a partner
// change transfers the row and its adjustments to the new partner, shifting
// both running totals by the row's effective amount.
func (s *Service) AmendTransaction(ctx context.Context, userID, transactionID ulid.ULID, input *AmendInput) (*AmendResult, error) {
	original, err := s.Repository.GetByIDAndUser(ctx, transactionID, userID)
	if err != nil {
		return nil, appErrors.ErrTransactionNotFound
	}

	if original.Type != TypeContribution {
		return nil, appErrors.NewInvariantViolation("Only contribution transactions can be amended")
	}

	undone, err := s.Repository.HasUndo(ctx, original.Id)
	if err != nil {
		return nil, err
	}
	if undone {
		return nil, appErrors.NewInvariantViolation("Transaction has been undone and can no longer be amended")
	}

	params := &AmendParams{Original: original}
	now := pkg.SetTimestamps()

	if input.Category != nil {
		original.Category = *input.Category
	}
	if input.Context != nil {
		original.Context = *input.Context
	}
	if input.TransactionDate != nil {
		original.TransactionDate = *input.TransactionDate
	}
	if input.ReceiptID != nil {
		original.ReceiptId = input.ReceiptID
	}
	original.UpdatedAt = now

	if input.PartnerID != nil && *input.PartnerID != original.PartnerId {
		if err := s.PartnerService.Exists(ctx, *input.PartnerID, userID); err != nil {
			return nil, err
		}
		params.Transfer = &Transfer{From: original.PartnerId, To: *input.PartnerID}
		original.PartnerId = *input.PartnerID
	}

	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, appErrors.NewValidationError("amount", "Amount must be greater than 0")
		}
		// The settled amount never changes, so prior amends live in
		// adjustment rows. The delta must close the gap from the effective
		// amount, not from the original, or repeated amends stack.
		adjusted, err := s.Repository.AdjustmentSum(ctx, original.Id)
		if err != nil {
			return nil, err
		}
		delta := *input.Amount - (original.Amount + adjusted)
		if delta != 0 {
			params.Adjustment = &Transaction{
				Id:              pkg.GenerateULIDObject(),
				UserId:          userID,
				PartnerId:       original.PartnerId,
				Amount:          delta,
				Type:            TypeAdjustment,
				Category:        original.Category,
				Context:         original.Context,
				Currency:        original.Currency,
				TransactionDate: original.TransactionDate,
				RelatedTo:       &original.Id,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		}
	}

	total, err := s.Repository.AmendAtomic(ctx, params)
	if err != nil {
		if errors.Is(err, ErrPartnerMissing) {
			return nil, appErrors.ErrPartnerNotFound
		}
		return nil, err
	}

	return &AmendResult{
		Transaction:  original,
		Adjustment:   params.Adjustment,
		PartnerTotal: total,
	}, nil
}

// AttachReceipt records a receipt reference on the transaction through the
// non-monetary amend path.
func (s *Service) AttachReceipt(ctx context.Context, userID, transactionID, receiptID ulid.ULID) error {
	_, err := s.AmendTransaction(ctx, userID, transactionID, &AmendInput{ReceiptID: &receiptID})
	return err
}

// UndoTransaction writes a compensating undo row and decrements the partner
// total by the original's absolute amount. At most one undo may ever
// reference a given transaction; the store's uniqueness constraint decides
// races.
func (s *Service) UndoTransaction(ctx context.Context, userID, transactionID ulid.ULID, reason string) (*ContributionResult, error) {
	original, err := s.Repository.GetByIDAndUser(ctx, transactionID, userID)
	if err != nil {
		return nil, appErrors.ErrTransactionNotFound
	}

	if original.Type == TypeUndo {
		return nil, appErrors.NewInvariantViolation("Cannot undo an undo transaction")
	}

	undone, err := s.Repository.HasUndo(ctx, original.Id)
	if err != nil {
		return nil, err
	}
	if undone {
		return nil, appErrors.NewInvariantViolation("Transaction has already been undone")
	}

	now := pkg.SetTimestamps()
	note := original.Context
	if reason != "" {
		note = reason
	}

	undo := &Transaction{
		Id:              pkg.GenerateULIDObject(),
		UserId:          userID,
		PartnerId:       original.PartnerId,
		Amount:          -math.Abs(original.Amount),
		Type:            TypeUndo,
		Category:        original.Category,
		Context:         note,
		Currency:        original.Currency,
		TransactionDate: now,
		RelatedTo:       &original.Id,
		IsReversing:     now.Sub(original.CreatedAt) <= fastUndoWindow,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	total, err := s.Repository.CreateUndoWithPartnerTotal(ctx, undo)
	if err != nil {
		if errors.Is(err, ErrUndoConflict) {
			return nil, appErrors.NewInvariantViolation("Transaction has already been undone")
		}
		if errors.Is(err, ErrPartnerMissing) {
			return nil, appErrors.ErrPartnerNotFound
		}
		return nil, err
	}

	return &ContributionResult{Transaction: undo, PartnerTotal: total}, nil
}

func (s *Service) GetByID(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error) {
	entity, err := s.Repository.GetByIDAndUser(ctx, transactionID, userID)
	if err != nil {
		return nil, appErrors.ErrTransactionNotFound
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	return s.Repository.GetAll(ctx, userID, filters, pagination)
}

func (s *Service) ListAll(ctx context.Context, userID ulid.ULID, filters *ListFilters) ([]*Transaction, error) {
	return s.Repository.GetAllForExport(ctx, userID, filters)
}

// RecentByPartners fetches the last K transactions per partner in one
// windowed query, for the partner list read path.
func (s *Service) RecentByPartners(ctx context.Context, userID ulid.ULID, partnerIDs []ulid.ULID, limit int) (map[ulid.ULID][]*Transaction, error) {
	if len(partnerIDs) == 0 {
		return map[ulid.ULID][]*Transaction{}, nil
	}
	if limit < 1 || limit > 20 {
		limit = 5
	}
	return s.Repository.RecentByPartners(ctx, userID, partnerIDs, limit)
}
