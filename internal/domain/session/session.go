package session

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is a server-side record of an issued auth token. Only the
// SHA-256 hash of the token is stored; the plaintext leaves the process
// once, in the login response.
type Session struct {
	Id         ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId     ulid.ULID  `gorm:"type:varchar(26);index:idx_sessions_user_id;not null" json:"userId"`
	TokenHash  string     `gorm:"type:varchar(64);uniqueIndex:idx_sessions_token_hash;not null" json:"-"`
	DeviceName string     `gorm:"type:varchar(100)" json:"deviceName,omitempty"`
	IP         string     `gorm:"type:varchar(45)" json:"ip,omitempty"`
	UserAgent  string     `gorm:"type:varchar(255)" json:"userAgent,omitempty"`
	ExpiresAt  time.Time  `gorm:"type:timestamp;not null;index:idx_sessions_expires_at" json:"expiresAt"`
	RevokedAt  *time.Time `gorm:"type:timestamp" json:"-"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
