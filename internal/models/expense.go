package models

import "time"

// Expense represents a single debit recorded against a project's
// envelope. Expenses are immutable once recorded; correcting a mistake
// is a reversal followed by a new recording.
type Expense struct {
	Base
	ProjectID   string    `gorm:"type:uuid;not null;index" json:"project_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	IncurredAt  time.Time `gorm:"not null" json:"incurred_at"`
}
