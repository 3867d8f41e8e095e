package models

// ProjectStatus classifies a project's budget health.
type ProjectStatus string

const (
	ProjectStatusOK          ProjectStatus = "ok"
	ProjectStatusWarning     ProjectStatus = "warning"
	ProjectStatusOutOfBudget ProjectStatus = "out_of_budget"
)

// DefaultThreshold is the warning boundary used when a project is
// created without an explicit threshold.
const DefaultThreshold = 0.8

// Budget is a project's monetary envelope. Amounts are in cents.
// Remaining is derived: remaining = total - spent, always.
type Budget struct {
	Total     int64 `gorm:"not null;default:0" json:"total"`
	Spent     int64 `gorm:"not null;default:0" json:"spent"`
	Remaining int64 `gorm:"not null;default:0" json:"remaining"`
}

// Project represents a budgeted project owned by a user. Its envelope
// and status are mutated only through the ledger; status is derived
// from the envelope and threshold, never set independently.
type Project struct {
	Base
	UserID      string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `gorm:"not null" json:"description"`
	Budget      Budget        `gorm:"embedded;embeddedPrefix:budget_" json:"budget"`
	Status      ProjectStatus `gorm:"not null;default:ok" json:"status"`
	Threshold   float64       `gorm:"not null;default:0.8" json:"threshold"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:ProjectID" json:"expenses,omitempty"`
}
