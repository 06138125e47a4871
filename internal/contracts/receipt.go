package contracts

import "time"

type ReceiptResponse struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	TransactionID string    `json:"transaction_id,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
