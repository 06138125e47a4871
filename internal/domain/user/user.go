package user

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type User struct {
	Id                  ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	Name                string     `gorm:"type:varchar(100);not null" json:"name"`
	Email               string     `gorm:"type:varchar(100);uniqueIndex:idx_users_email;not null" json:"email"`
	Password            string     `gorm:"type:varchar(255);not null" json:"-"`
	AvatarId            *ulid.ULID `gorm:"type:varchar(26)" json:"avatarId,omitempty"`
	AvatarURL           string     `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `gorm:"type:timestamp" json:"-"`
	CreatedAt           time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
