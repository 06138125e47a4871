package contracts

import "encoding/json"

type SyncItem struct {
	LocalID        string          `json:"local_id" binding:"required,max=100"`
	Action         string          `json:"action" binding:"required,oneof=create_contribution undo_transaction"`
	IdempotencyKey string          `json:"idempotency_key" binding:"omitempty,max=100"`
	Payload        json.RawMessage `json:"payload" binding:"required"`
}

type SyncQueueRequest struct {
	Items []SyncItem `json:"items" binding:"required,min=1,max=100,dive"`
}

type SyncItemResult struct {
	LocalID     string               `json:"local_id"`
	Status      string               `json:"status"`
	Message     string               `json:"message,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

type SyncQueueResponse struct {
	Results   []*SyncItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Duplicate int               `json:"duplicate"`
	Failed    int               `json:"failed"`
}

type UndoSyncPayload struct {
	TransactionID string `json:"transaction_id" binding:"required,len=26"`
	Reason        string `json:"reason" binding:"omitempty,max=500"`
}
