package model

import "time"

// Transaction is a ledger entry. Amount is a signed integer in minor
// currency units: positive values are income, negative values are expenses.
// Entries are append-only; nothing in the system mutates or deletes them.
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	Description string    `json:"description" gorm:"size:255;not null"`
	Category    string    `json:"category" gorm:"size:100;not null"`
	Amount      int64     `json:"amount" gorm:"not null"`
	UserID      *uint     `json:"user_id,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}
