package partner

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Partner's TotalContributed is a running sum maintained by the ledger:
// every contribution, adjustment and undo updates it in the same atomic
// unit that writes the ledger row. It is never recomputed on read.
type Partner struct {
	Id               ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId           ulid.ULID  `gorm:"type:varchar(26);index:idx_partners_user_id;not null" json:"userId"`
	Name             string     `gorm:"type:varchar(100);not null" json:"name"`
	Email            string     `gorm:"type:varchar(100)" json:"email,omitempty"`
	Phone            string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Notes            string     `gorm:"type:varchar(500)" json:"notes,omitempty"`
	AvatarId         *ulid.ULID `gorm:"type:varchar(26)" json:"avatarId,omitempty"`
	AvatarURL        string     `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	TotalContributed float64    `gorm:"type:decimal(15,2);not null;default:0" json:"totalContributed"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Partner) TableName() string {
	return "partners"
}
