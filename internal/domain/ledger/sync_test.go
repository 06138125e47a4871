package ledger_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"Hishab/internal/domain/ledger"

	"github.com/oklog/ulid/v2"
)

func TestSyncQueuePartialFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	good := fmt.Sprintf(`{"partner_id":%q,"amount":100}`, partnerID.String())
	bad := fmt.Sprintf(`{"partner_id":%q,"amount":-5}`, partnerID.String())

	items := []ledger.SyncItem{
		{LocalID: "a", Action: ledger.SyncActionCreateContribution, IdempotencyKey: "k-a", Payload: json.RawMessage(good)},
		{LocalID: "b", Action: ledger.SyncActionCreateContribution, IdempotencyKey: "k-b", Payload: json.RawMessage(bad)},
		{LocalID: "c", Action: ledger.SyncActionCreateContribution, IdempotencyKey: "k-c", Payload: json.RawMessage(good)},
	}

	results := svc.SyncQueue(ctx, userID, items)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != ledger.SyncStatusOK {
		t.Fatalf("item a: expected ok, got %s (%s)", results[0].Status, results[0].Message)
	}
	if results[1].Status != ledger.SyncStatusError {
		t.Fatalf("item b: expected error, got %s", results[1].Status)
	}
	if results[2].Status != ledger.SyncStatusOK {
		t.Fatalf("item c: one failing item must not abort the rest, got %s", results[2].Status)
	}
	if repo.partnerTotals(partnerID) != 200 {
		t.Fatalf("expected total 200, got %v", repo.partnerTotals(partnerID))
	}
}

func TestSyncQueueReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	payload := fmt.Sprintf(`{"partner_id":%q,"amount":300}`, partnerID.String())
	items := []ledger.SyncItem{
		{LocalID: "local-1", Action: ledger.SyncActionCreateContribution, IdempotencyKey: "key-1", Payload: json.RawMessage(payload)},
	}

	first := svc.SyncQueue(ctx, userID, items)
	if first[0].Status != ledger.SyncStatusOK {
		t.Fatalf("expected ok, got %s", first[0].Status)
	}

	replay := svc.SyncQueue(ctx, userID, items)
	if replay[0].Status != ledger.SyncStatusDuplicate {
		t.Fatalf("expected duplicate on replay, got %s", replay[0].Status)
	}
	if repo.partnerTotals(partnerID) != 300 {
		t.Fatalf("replay must not re-apply, total=%v", repo.partnerTotals(partnerID))
	}
}

func TestSyncQueueKeyFallsBackToLocalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	payload := fmt.Sprintf(`{"partner_id":%q,"amount":50}`, partnerID.String())
	item := ledger.SyncItem{
		LocalID: "device-7-42",
		Action:  ledger.SyncActionCreateContribution,
		Payload: json.RawMessage(payload),
	}

	svc.SyncQueue(ctx, userID, []ledger.SyncItem{item})
	replay := svc.SyncQueue(ctx, userID, []ledger.SyncItem{item})
	if replay[0].Status != ledger.SyncStatusDuplicate {
		t.Fatalf("local id must serve as the fallback key, got %s", replay[0].Status)
	}
}

func TestSyncQueueUndoAction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	partnerID := ulid.Make()

	repo := newMemoryLedger()
	svc := newScenarioService(repo)

	created, err := svc.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID: partnerID,
		Amount:    120,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := fmt.Sprintf(`{"transaction_id":%q,"reason":"offline undo"}`, created.Transaction.Id.String())
	results := svc.SyncQueue(ctx, userID, []ledger.SyncItem{
		{LocalID: "u-1", Action: ledger.SyncActionUndoTransaction, Payload: json.RawMessage(payload)},
	})
	if results[0].Status != ledger.SyncStatusOK {
		t.Fatalf("expected ok, got %s (%s)", results[0].Status, results[0].Message)
	}
	if repo.partnerTotals(partnerID) != 0 {
		t.Fatalf("expected total 0 after undo, got %v", repo.partnerTotals(partnerID))
	}

	t.Run("unknown action", func(t *testing.T) {
		results := svc.SyncQueue(ctx, userID, []ledger.SyncItem{
			{LocalID: "x", Action: "delete_everything", Payload: json.RawMessage(`{}`)},
		})
		if results[0].Status != ledger.SyncStatusError {
			t.Fatalf("expected error, got %s", results[0].Status)
		}
	})
}
