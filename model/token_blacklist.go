package model

import (
	"time"
)

// JWTTokenBlacklist stores revoked token JTIs until their natural expiry
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"` // JTI
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason,omitempty"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
