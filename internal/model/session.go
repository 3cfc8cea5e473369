package model

import "time"

// Session is a single active refresh credential. The refresh token itself is
// an opaque random string; nothing about the user is derivable from it
// without this row. A user may hold several concurrent sessions.
type Session struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RefreshToken string    `json:"-" gorm:"uniqueIndex;size:64;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null"`
}
