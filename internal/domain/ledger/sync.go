package ledger

import (
	"context"
	"encoding/json"
	"time"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/logger"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

const (
	SyncActionCreateContribution = "create_contribution"
	SyncActionUndoTransaction    = "undo_transaction"

	SyncStatusOK        = "ok"
	SyncStatusDuplicate = "duplicate"
	SyncStatusError     = "error"
)

type SyncItem struct {
	LocalID        string
	Action         string
	IdempotencyKey string
	Payload        json.RawMessage
}

type SyncResult struct {
	LocalID string
	Status  string
	Message string
	Result  *ContributionResult
}

type contributionPayload struct {
	PartnerID       string     `json:"partner_id"`
	Amount          float64    `json:"amount"`
	Category        string     `json:"category"`
	Context         string     `json:"context"`
	Currency        string     `json:"currency"`
	TransactionDate *time.Time `json:"transaction_date"`
}

type undoPayload struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

// SyncQueue replays an offline batch. Items are processed independently in
// order; one failing item never aborts the rest. Each contribution item is
// keyed by its idempotency key (falling back to the client's local id), so
// replaying the same queue is harmless.
func (s *Service) SyncQueue(ctx context.Context, userID ulid.ULID, items []SyncItem) []*SyncResult {
	results := make([]*SyncResult, 0, len(items))

	for _, item := range items {
		result := s.syncItem(ctx, userID, item)
		if result.Status == SyncStatusError {
			logger.Warn().
				Str("local_id", item.LocalID).
				Str("action", item.Action).
				Str("message", result.Message).
				Msg("sync_item_failed")
		}
		results = append(results, result)
	}

	return results
}

func (s *Service) syncItem(ctx context.Context, userID ulid.ULID, item SyncItem) *SyncResult {
	result := &SyncResult{LocalID: item.LocalID}

	switch item.Action {
	case SyncActionCreateContribution:
		var payload contributionPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			result.Status = SyncStatusError
			result.Message = "Invalid payload for create_contribution"
			return result
		}

		partnerID, err := pkg.ParseULID(payload.PartnerID)
		if err != nil {
			result.Status = SyncStatusError
			result.Message = "Invalid partner_id"
			return result
		}

		key := item.IdempotencyKey
		if key == "" {
			key = item.LocalID
		}

		created, err := s.CreateContribution(ctx, userID, &ContributionInput{
			PartnerID:       partnerID,
			Amount:          payload.Amount,
			Category:        payload.Category,
			Context:         payload.Context,
			Currency:        payload.Currency,
			TransactionDate: payload.TransactionDate,
			IdempotencyKey:  &key,
		})
		if err != nil {
			result.Status = SyncStatusError
			result.Message = appErrors.FromError(err).Message
			return result
		}

		result.Result = created
		if created.Duplicate {
			result.Status = SyncStatusDuplicate
		} else {
			result.Status = SyncStatusOK
		}
		return result

	case SyncActionUndoTransaction:
		var payload undoPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			result.Status = SyncStatusError
			result.Message = "Invalid payload for undo_transaction"
			return result
		}

		transactionID, err := pkg.ParseULID(payload.TransactionID)
		if err != nil {
			result.Status = SyncStatusError
			result.Message = "Invalid transaction_id"
			return result
		}

		undone, err := s.UndoTransaction(ctx, userID, transactionID, payload.Reason)
		if err != nil {
			result.Status = SyncStatusError
			result.Message = appErrors.FromError(err).Message
			return result
		}

		result.Status = SyncStatusOK
		result.Result = undone
		return result

	default:
		result.Status = SyncStatusError
		result.Message = "Unknown action"
		return result
	}
}
