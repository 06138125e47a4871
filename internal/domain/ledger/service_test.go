package ledger_test

import (
	"context"
	"testing"
	"time"

	"Hishab/internal/domain/ledger"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type fakeLedgerRepository struct {
	createFn              func(ctx context.Context, tx *ledger.Transaction) (float64, error)
	createUndoFn          func(ctx context.Context, undo *ledger.Transaction) (float64, error)
	amendAtomicFn         func(ctx context.Context, params *ledger.AmendParams) (float64, error)
	adjustmentSumFn       func(ctx context.Context, transactionID ulid.ULID) (float64, error)
	getByIDFn             func(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error)
	getByIdempotencyKeyFn func(ctx context.Context, userID ulid.ULID, key string) (*ledger.Transaction, error)
	hasUndoFn             func(ctx context.Context, transactionID ulid.ULID) (bool, error)
}

func (f *fakeLedgerRepository) CreateWithPartnerTotal(ctx context.Context, tx *ledger.Transaction) (float64, error) {
	if f.createFn != nil {
		return f.createFn(ctx, tx)
	}
	return tx.Amount, nil
}

func (f *fakeLedgerRepository) CreateUndoWithPartnerTotal(ctx context.Context, undo *ledger.Transaction) (float64, error) {
	if f.createUndoFn != nil {
		return f.createUndoFn(ctx, undo)
	}
	return 0, nil
}

func (f *fakeLedgerRepository) AmendAtomic(ctx context.Context, params *ledger.AmendParams) (float64, error) {
	if f.amendAtomicFn != nil {
		return f.amendAtomicFn(ctx, params)
	}
	return 0, nil
}

func (f *fakeLedgerRepository) AdjustmentSum(ctx context.Context, transactionID ulid.ULID) (float64, error) {
	if f.adjustmentSumFn != nil {
		return f.adjustmentSumFn(ctx, transactionID)
	}
	return 0, nil
}

func (f *fakeLedgerRepository) GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, transactionID, userID)
	}
	return nil, appErrors.ErrTransactionNotFound
}

func (f *fakeLedgerRepository) GetByIdempotencyKey(ctx context.Context, userID ulid.ULID, key string) (*ledger.Transaction, error) {
	if f.getByIdempotencyKeyFn != nil {
		return f.getByIdempotencyKeyFn(ctx, userID, key)
	}
	return nil, appErrors.ErrTransactionNotFound
}

func (f *fakeLedgerRepository) HasUndo(ctx context.Context, transactionID ulid.ULID) (bool, error) {
	if f.hasUndoFn != nil {
		return f.hasUndoFn(ctx, transactionID)
	}
	return false, nil
}

func (f *fakeLedgerRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *ledger.ListFilters, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedgerRepository) GetAllForExport(ctx context.Context, userID ulid.ULID, filters *ledger.ListFilters) ([]*ledger.Transaction, error) {
	return nil, nil
}

func (f *fakeLedgerRepository) RecentByPartners(ctx context.Context, userID ulid.ULID, partnerIDs []ulid.ULID, limit int) (map[ulid.ULID][]*ledger.Transaction, error) {
	return map[ulid.ULID][]*ledger.Transaction{}, nil
}

type fakePartnerService struct {
	existsFn   func(ctx context.Context, partnerID, userID ulid.ULID) error
	getTotalFn func(ctx context.Context, partnerID, userID ulid.ULID) (float64, error)
}

func (f *fakePartnerService) Exists(ctx context.Context, partnerID, userID ulid.ULID) error {
	if f.existsFn != nil {
		return f.existsFn(ctx, partnerID, userID)
	}
	return nil
}

func (f *fakePartnerService) GetTotal(ctx context.Context, partnerID, userID ulid.ULID) (float64, error) {
	if f.getTotalFn != nil {
		return f.getTotalFn(ctx, partnerID, userID)
	}
	return 0, nil
}

// memoryLedger backs the scenario tests with real running-total arithmetic.
type memoryLedger struct {
	fakeLedgerRepository
	rows   map[ulid.ULID]*ledger.Transaction
	byKey  map[string]*ledger.Transaction
	totals map[ulid.ULID]float64
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		rows:   make(map[ulid.ULID]*ledger.Transaction),
		byKey:  make(map[string]*ledger.Transaction),
		totals: make(map[ulid.ULID]float64),
	}
}

func userKey(userID ulid.ULID, key string) string {
	return userID.String() + "/" + key
}

func (m *memoryLedger) CreateWithPartnerTotal(ctx context.Context, tx *ledger.Transaction) (float64, error) {
	if tx.IdempotencyKey != nil {
		scoped := userKey(tx.UserId, *tx.IdempotencyKey)
		if _, exists := m.byKey[scoped]; exists {
			return 0, ledger.ErrDuplicateIdempotencyKey
		}
		m.byKey[scoped] = tx
	}
	m.rows[tx.Id] = tx
	m.totals[tx.PartnerId] += tx.Amount
	return m.totals[tx.PartnerId], nil
}

func (m *memoryLedger) CreateUndoWithPartnerTotal(ctx context.Context, undo *ledger.Transaction) (float64, error) {
	for _, row := range m.rows {
		if row.Type == ledger.TypeUndo && row.RelatedTo != nil && *row.RelatedTo == *undo.RelatedTo {
			return 0, ledger.ErrUndoConflict
		}
	}
	m.rows[undo.Id] = undo
	m.totals[undo.PartnerId] += undo.Amount
	return m.totals[undo.PartnerId], nil
}

func (m *memoryLedger) GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error) {
	if row, ok := m.rows[transactionID]; ok {
		return row, nil
	}
	return nil, appErrors.ErrTransactionNotFound
}

func (m *memoryLedger) GetByIdempotencyKey(ctx context.Context, userID ulid.ULID, key string) (*ledger.Transaction, error) {
	if row, ok := m.byKey[userKey(userID, key)]; ok {
		return row, nil
	}
	return nil, appErrors.ErrTransactionNotFound
}

func (m *memoryLedger) AdjustmentSum(ctx context.Context, transactionID ulid.ULID) (float64, error) {
	var sum float64
	for _, row := range m.rows {
		if row.Type == ledger.TypeAdjustment && row.RelatedTo != nil && *row.RelatedTo == transactionID {
			sum += row.Amount
		}
	}
	return sum, nil
}

func (m *memoryLedger) AmendAtomic(ctx context.Context, params *ledger.AmendParams) (float64, error) {
	original := params.Original
	if params.Transfer != nil {
		sum, _ := m.AdjustmentSum(ctx, original.Id)
		effective := original.Amount + sum
		m.totals[params.Transfer.From] -= effective
		m.totals[params.Transfer.To] += effective
		for _, row := range m.rows {
			if row.Type == ledger.TypeAdjustment && row.RelatedTo != nil && *row.RelatedTo == original.Id {
				row.PartnerId = params.Transfer.To
			}
		}
	}
	if params.Adjustment != nil {
		m.rows[params.Adjustment.Id] = params.Adjustment
		m.totals[params.Adjustment.PartnerId] += params.Adjustment.Amount
	}
	return m.totals[original.PartnerId], nil
}

func (m *memoryLedger) HasUndo(ctx context.Context, transactionID ulid.ULID) (bool, error) {
	for _, row := range m.rows {
		if row.Type == ledger.TypeUndo && row.RelatedTo != nil && *row.RelatedTo == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLedger) partnerTotals(partnerID ulid.ULID) float64 {
	return m.totals[partnerID]
}

func newScenarioService(repo *memoryLedger) *ledger.Service {
	return ledger.NewService(repo, &fakePartnerService{
		getTotalFn: func(ctx context.Context, partnerID, userID ulid.ULID) (float64, error) {
			return repo.partnerTotals(partnerID), nil
		},
	})
}

func TestCreateContributionValidations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	svc := ledger.NewService(&fakeLedgerRepository{}, &fakePartnerService{})

	_, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID: partnerID,
		Amount:    0,
	})
	if err == nil {
		t.Fatalf("expected error for zero amount")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %v", err)
	}

	svc = ledger.NewService(&fakeLedgerRepository{}, &fakePartnerService{
		existsFn: func(ctx context.Context, pid, uid ulid.ULID) error {
			return appErrors.ErrPartnerNotFound
		},
	})
	_, err = svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID: partnerID,
		Amount:    100,
	})
	if err == nil {
		t.Fatalf("expected error for missing partner")
	}
	appErr, _ = appErrors.AsAppError(err)
	if appErr.Code != appErrors.ErrPartnerNotFound.Code {
		t.Fatalf("expected partner not found, got %s", appErr.Code)
	}
}

func TestCreateContributionIdempotentReplay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()
	key := "client-key-1"

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	first, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID:      partnerID,
		Amount:         250,
		IdempotencyKey: &key,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first call must not be marked duplicate")
	}
	if first.PartnerTotal != 250 {
		t.Fatalf("expected total 250, got %v", first.PartnerTotal)
	}

	second, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID:      partnerID,
		Amount:         250,
		IdempotencyKey: &key,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("replay must be marked duplicate")
	}
	if second.Transaction.Id != first.Transaction.Id {
		t.Fatalf("replay must return the original row")
	}
	if second.PartnerTotal != 250 {
		t.Fatalf("replay must not increment the total, got %v", second.PartnerTotal)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected a single persisted row, got %d", len(repo.rows))
	}
}

func TestCreateContributionIdempotencyRaceLoser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()
	key := "raced-key"

	winner := &ledger.Transaction{
		Id:        ulid.Make(),
		UserId:    userID,
		PartnerId: partnerID,
		Amount:    100,
		Type:      ledger.TypeContribution,
	}

	lookups := 0
	repo := &fakeLedgerRepository{
		getByIdempotencyKeyFn: func(ctx context.Context, uid ulid.ULID, k string) (*ledger.Transaction, error) {
			lookups++
			// Pre-insert lookup misses, the winner's row lands before our
			// insert, so the post-conflict lookup hits.
			if lookups == 1 {
				return nil, appErrors.ErrTransactionNotFound
			}
			return winner, nil
		},
		createFn: func(ctx context.Context, tx *ledger.Transaction) (float64, error) {
			return 0, ledger.ErrDuplicateIdempotencyKey
		},
	}

	svc := ledger.NewService(repo, &fakePartnerService{
		getTotalFn: func(ctx context.Context, pid, uid ulid.ULID) (float64, error) {
			return 100, nil
		},
	})

	result, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID:      partnerID,
		Amount:         100,
		IdempotencyKey: &key,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Duplicate || result.Transaction.Id != winner.Id {
		t.Fatalf("race loser must surface the winner's row as duplicate")
	}
}

func TestUndoTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	created, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID: partnerID,
		Amount:    500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PartnerTotal != 500 {
		t.Fatalf("expected total 500, got %v", created.PartnerTotal)
	}

	undone, err := svc.UndoTransaction(ctx, userID, created.Transaction.Id, "entered twice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone.Transaction.Amount != -500 {
		t.Fatalf("undo row must carry the negated amount, got %v", undone.Transaction.Amount)
	}
	if undone.Transaction.Context != "entered twice" {
		t.Fatalf("undo row must record the reason")
	}
	if undone.PartnerTotal != 0 {
		t.Fatalf("expected total back to 0, got %v", undone.PartnerTotal)
	}

	_, err = svc.UndoTransaction(ctx, userID, created.Transaction.Id, "")
	if err == nil {
		t.Fatalf("second undo must fail")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Code != "INVARIANT_VIOLATION" {
		t.Fatalf("expected invariant violation, got %s", appErr.Code)
	}
	if repo.partnerTotals(partnerID) != 0 {
		t.Fatalf("failed undo must not touch the total, got %v", repo.partnerTotals(partnerID))
	}

	_, err = svc.UndoTransaction(ctx, userID, undone.Transaction.Id, "")
	if err == nil {
		t.Fatalf("undoing an undo must fail")
	}
	appErr, _ = appErrors.AsAppError(err)
	if appErr.Code != "INVARIANT_VIOLATION" {
		t.Fatalf("expected invariant violation, got %s", appErr.Code)
	}
}

func TestUndoConflictFromStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	original := &ledger.Transaction{
		Id:        ulid.Make(),
		UserId:    userID,
		PartnerId: ulid.Make(),
		Amount:    100,
		Type:      ledger.TypeContribution,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	repo := &fakeLedgerRepository{
		getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*ledger.Transaction, error) {
			return original, nil
		},
		createUndoFn: func(ctx context.Context, undo *ledger.Transaction) (float64, error) {
			return 0, ledger.ErrUndoConflict
		},
	}

	svc := ledger.NewService(repo, &fakePartnerService{})

	_, err := svc.UndoTransaction(ctx, userID, original.Id, "")
	if err == nil {
		t.Fatalf("expected conflict")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Code != "INVARIANT_VIOLATION" {
		t.Fatalf("expected invariant violation, got %s", appErr.Code)
	}
}

func TestAmendTransactionAmountChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	original := &ledger.Transaction{
		Id:        ulid.Make(),
		UserId:    userID,
		PartnerId: partnerID,
		Amount:    300,
		Type:      ledger.TypeContribution,
		Category:  "capital",
		Currency:  ledger.DefaultCurrency,
	}

	var captured *ledger.AmendParams
	repo := &fakeLedgerRepository{
		getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*ledger.Transaction, error) {
			return original, nil
		},
		amendAtomicFn: func(ctx context.Context, params *ledger.AmendParams) (float64, error) {
			captured = params
			return 450, nil
		},
	}

	svc := ledger.NewService(repo, &fakePartnerService{})

	newAmount := 450.0
	result, err := svc.AmendTransaction(ctx, userID, original.Id, &ledger.AmendInput{Amount: &newAmount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil || captured.Adjustment == nil {
		t.Fatalf("amount change must produce an adjustment row")
	}
	if captured.Adjustment.Amount != 150 {
		t.Fatalf("expected delta 150, got %v", captured.Adjustment.Amount)
	}
	if captured.Adjustment.Type != ledger.TypeAdjustment {
		t.Fatalf("expected adjustment type, got %s", captured.Adjustment.Type)
	}
	if captured.Adjustment.RelatedTo == nil || *captured.Adjustment.RelatedTo != original.Id {
		t.Fatalf("adjustment must reference the original")
	}
	if result.Transaction.Amount != 300 {
		t.Fatalf("settled amount must never be rewritten, got %v", result.Transaction.Amount)
	}
	if result.PartnerTotal != 450 {
		t.Fatalf("expected total 450, got %v", result.PartnerTotal)
	}
}

func TestAmendTransactionRepeatedAmends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	created, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID: partnerID,
		Amount:    300,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amount := 450.0
	first, err := svc.AmendTransaction(ctx, userID, created.Transaction.Id, &ledger.AmendInput{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Adjustment == nil || first.Adjustment.Amount != 150 {
		t.Fatalf("expected delta 150, got %+v", first.Adjustment)
	}
	if first.PartnerTotal != 450 {
		t.Fatalf("expected total 450, got %v", first.PartnerTotal)
	}

	// Amending to the amount already in effect must be a no-op, not a
	// second +150 against the settled original.
	second, err := svc.AmendTransaction(ctx, userID, created.Transaction.Id, &ledger.AmendInput{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Adjustment != nil {
		t.Fatalf("repeat amend to the same amount must not write an adjustment, got delta %v", second.Adjustment.Amount)
	}
	if second.PartnerTotal != 450 {
		t.Fatalf("expected total to stay 450, got %v", second.PartnerTotal)
	}

	lower := 400.0
	third, err := svc.AmendTransaction(ctx, userID, created.Transaction.Id, &ledger.AmendInput{Amount: &lower})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Adjustment == nil || third.Adjustment.Amount != -50 {
		t.Fatalf("expected delta -50 against the effective amount, got %+v", third.Adjustment)
	}
	if third.PartnerTotal != 400 {
		t.Fatalf("expected total 400, got %v", third.PartnerTotal)
	}
	if created.Transaction.Amount != 300 {
		t.Fatalf("settled amount must never be rewritten, got %v", created.Transaction.Amount)
	}
}

func TestCreateContributionKeyScopedPerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice := ulid.Make()
	bob := ulid.Make()
	partnerID := ulid.Make()
	key := "shared-client-key"

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	first, err := svc.CreateContribution(ctx, alice, &ledger.ContributionInput{
		PartnerID:      partnerID,
		Amount:         100,
		IdempotencyKey: &key,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first use of the key must not be a duplicate")
	}

	second, err := svc.CreateContribution(ctx, bob, &ledger.ContributionInput{
		PartnerID:      partnerID,
		Amount:         200,
		IdempotencyKey: &key,
	})
	if err != nil {
		t.Fatalf("another user reusing the key must succeed, got %v", err)
	}
	if second.Duplicate {
		t.Fatalf("the key is scoped per user, not globally")
	}
	if second.Transaction.Id == first.Transaction.Id {
		t.Fatalf("each user must get their own row")
	}
	if len(repo.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(repo.rows))
	}
}

func TestAmendTransactionPartnerTransfer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	fromPartner := ulid.Make()
	toPartner := ulid.Make()

	original := &ledger.Transaction{
		Id:        ulid.Make(),
		UserId:    userID,
		PartnerId: fromPartner,
		Amount:    200,
		Type:      ledger.TypeContribution,
	}

	var captured *ledger.AmendParams
	repo := &fakeLedgerRepository{
		getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*ledger.Transaction, error) {
			return original, nil
		},
		amendAtomicFn: func(ctx context.Context, params *ledger.AmendParams) (float64, error) {
			captured = params
			return 200, nil
		},
	}

	svc := ledger.NewService(repo, &fakePartnerService{})

	result, err := svc.AmendTransaction(ctx, userID, original.Id, &ledger.AmendInput{PartnerID: &toPartner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Transfer == nil {
		t.Fatalf("partner change must produce a transfer")
	}
	if captured.Transfer.From != fromPartner || captured.Transfer.To != toPartner {
		t.Fatalf("transfer endpoints wrong: %+v", captured.Transfer)
	}
	if result.Transaction.PartnerId != toPartner {
		t.Fatalf("amended row must belong to the new partner")
	}
}

func TestAmendTransactionRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	t.Run("non contribution", func(t *testing.T) {
		adjustment := &ledger.Transaction{
			Id:     ulid.Make(),
			UserId: userID,
			Type:   ledger.TypeAdjustment,
		}
		svc := ledger.NewService(&fakeLedgerRepository{
			getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*ledger.Transaction, error) {
				return adjustment, nil
			},
		}, &fakePartnerService{})

		_, err := svc.AmendTransaction(ctx, userID, adjustment.Id, &ledger.AmendInput{})
		if err == nil {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("already undone", func(t *testing.T) {
		original := &ledger.Transaction{
			Id:     ulid.Make(),
			UserId: userID,
			Type:   ledger.TypeContribution,
			Amount: 100,
		}
		svc := ledger.NewService(&fakeLedgerRepository{
			getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*ledger.Transaction, error) {
				return original, nil
			},
			hasUndoFn: func(ctx context.Context, id ulid.ULID) (bool, error) {
				return true, nil
			},
		}, &fakePartnerService{})

		_, err := svc.AmendTransaction(ctx, userID, original.Id, &ledger.AmendInput{})
		if err == nil {
			t.Fatalf("expected rejection")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "INVARIANT_VIOLATION" {
			t.Fatalf("expected invariant violation, got %s", appErr.Code)
		}
	})
}
