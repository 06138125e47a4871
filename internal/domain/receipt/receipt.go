package receipt

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Receipt struct {
	Id            ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId        ulid.ULID  `gorm:"type:varchar(26);index:idx_receipts_user_id;not null" json:"userId"`
	TransactionId *ulid.ULID `gorm:"type:varchar(26);index:idx_receipts_transaction_id" json:"transactionId,omitempty"`
	FileName      string     `gorm:"type:varchar(255);not null" json:"fileName"`
	ContentType   string     `gorm:"type:varchar(100);not null" json:"contentType"`
	Size          int64      `gorm:"not null" json:"size"`
	ObjectPath    string     `gorm:"type:varchar(500);not null" json:"-"`
	URL           string     `gorm:"type:varchar(500);not null" json:"url"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
}

func (Receipt) TableName() string {
	return "receipts"
}
