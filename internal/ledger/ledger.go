// Package ledger implements the budget pipeline: status classification,
// expense admission, and the debit/credit envelope mutations. Every
// function here is pure; the expense service supplies the freshness and
// serialization guarantees around them.
package ledger

import (
	"fmt"

	apperrors "centime/internal/errors"
	"centime/internal/models"
)

// Classify maps an envelope and threshold to a project status.
// A zero-total envelope never divides; it falls out as out_of_budget
// through the remaining check.
func Classify(total, remaining int64, threshold float64) models.ProjectStatus {
	if remaining <= 0 {
		return models.ProjectStatusOutOfBudget
	}
	if total > 0 && float64(remaining)/float64(total) < threshold {
		return models.ProjectStatusWarning
	}
	return models.ProjectStatusOK
}

// Admit checks a proposed expense amount against the envelope. It
// returns nil when the amount fits within remaining, or an
// InsufficientBudget error carrying the current remaining value.
func Admit(budget models.Budget, amount int64) error {
	if amount > budget.Remaining {
		return apperrors.WithMessage(apperrors.ErrInsufficientBudget,
			fmt.Sprintf("Insufficient budget: %s remaining", formatAmount(budget.Remaining)))
	}
	return nil
}

// Debit applies an admitted expense to the envelope and re-derives the
// status. This is the only place spent increases. Given admission
// already verified amount <= remaining, the new remaining is never
// negative.
func Debit(budget models.Budget, threshold float64, amount int64) (models.Budget, models.ProjectStatus) {
	budget.Spent += amount
	budget.Remaining = budget.Total - budget.Spent
	return budget, Classify(budget.Total, budget.Remaining, threshold)
}

// Credit reverses a recorded expense amount and re-derives the status
// with the full three-way classification, since several expenses may
// have independently pushed the project past a boundary. Spent is
// clamped at zero; clamped reports when that happened so the caller can
// log the envelope drift instead of silently correcting it.
func Credit(budget models.Budget, threshold float64, amount int64) (b models.Budget, status models.ProjectStatus, clamped bool) {
	budget.Spent -= amount
	if budget.Spent < 0 {
		budget.Spent = 0
		clamped = true
	}
	budget.Remaining = budget.Total - budget.Spent
	return budget, Classify(budget.Total, budget.Remaining, threshold), clamped
}

// Notice identifies the outbound message, if any, warranted by a status
// transition.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeWarning
	NoticeOutOfBudget
)

// Decide compares pre- and post-mutation statuses. A notice is emitted
// only on entry into warning or out_of_budget from a different status;
// repeated entries and recoveries toward ok stay silent.
func Decide(oldStatus, newStatus models.ProjectStatus) Notice {
	if oldStatus == newStatus {
		return NoticeNone
	}
	switch newStatus {
	case models.ProjectStatusWarning:
		return NoticeWarning
	case models.ProjectStatusOutOfBudget:
		return NoticeOutOfBudget
	}
	return NoticeNone
}

// formatAmount renders cents as a decimal amount for error messages.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
