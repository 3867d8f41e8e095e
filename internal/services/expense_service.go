package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "centime/internal/errors"
	"centime/internal/ledger"
	"centime/internal/logger"
	"centime/internal/models"
	"centime/internal/notify"
	"centime/internal/pagination"
)

const noticeDispatchTimeout = 10 * time.Second

// expenseService orchestrates the expense ledger: admission, the
// debit/credit envelope mutations, and the status-transition
// notifications. It is the only component that mutates a project's
// envelope after creation.
type expenseService struct {
	db       *gorm.DB
	notifier notify.Notifier
	locks    *ProjectLocks
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, notifier notify.Notifier, locks *ProjectLocks) ExpenseServicer {
	return &expenseService{db: db, notifier: notifier, locks: locks}
}

// RecordExpense admits an expense against the project's envelope,
// persists it, and applies the debit — all inside the project's
// critical section so two concurrent recordings can never jointly
// overdraw. A status degradation is emailed to the owner after commit;
// delivery failure is logged and never fails the recording.
func (s *expenseService) RecordExpense(userID, projectID string, amount int64, title, description string, incurredAt time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "amount must be greater than zero")
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "title and description are required")
	}
	if incurredAt.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "incurred_at is required")
	}

	unlock := s.locks.Lock(projectID)
	defer unlock()

	var (
		expense *models.Expense
		project models.Project
		notice  ledger.Notice
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProjectNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := ledger.Admit(project.Budget, amount); err != nil {
			return err
		}

		expense = &models.Expense{
			ProjectID:   projectID,
			Amount:      amount,
			Title:       title,
			Description: description,
			IncurredAt:  incurredAt,
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		oldStatus := project.Status
		project.Budget, project.Status = ledger.Debit(project.Budget, project.Threshold, amount)
		notice = ledger.Decide(oldStatus, project.Status)

		if err := tx.Model(&project).Updates(map[string]interface{}{
			"budget_spent":     project.Budget.Spent,
			"budget_remaining": project.Budget.Remaining,
			"status":           project.Status,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notice != ledger.NoticeNone {
		s.dispatchNotice(project, notice)
	}

	return expense, nil
}

// ReverseExpense deletes an expense and credits the amount back to the
// owning project's envelope, re-deriving the status. No notification is
// ever sent on this path, including when the status improves.
func (s *expenseService) ReverseExpense(userID, projectID, expenseID string) (*models.Expense, error) {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	var expense models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND project_id = ?", expenseID, projectID).First(&expense).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrExpenseNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var project models.Project
		if err := tx.Where("id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The expense outlived its project. Complete the deletion
				// and surface the integrity anomaly for reconciliation.
				logger.Get().Errorw("expense references missing project",
					"expense_id", expenseID,
					"project_id", projectID,
				)
				if err := tx.Delete(&expense).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if project.UserID != userID {
			return apperrors.ErrProjectNotFound
		}

		if err := tx.Delete(&expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var clamped bool
		project.Budget, project.Status, clamped = ledger.Credit(project.Budget, project.Threshold, expense.Amount)
		if clamped {
			logger.Get().Warnw("credit clamped spent at zero, envelope had drifted",
				"project_id", projectID,
				"expense_id", expenseID,
				"expense_amount", expense.Amount,
			)
		}

		if err := tx.Model(&project).Updates(map[string]interface{}{
			"budget_spent":     project.Budget.Spent,
			"budget_remaining": project.Budget.Remaining,
			"status":           project.Status,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// GetProjectExpenses returns a paginated list of a project's expenses.
func (s *expenseService) GetProjectExpenses(userID, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if err := s.checkProjectOwnership(userID, projectID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("project_id = ?", projectID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("incurred_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID for a project the user owns.
func (s *expenseService) GetExpenseByID(userID, projectID, expenseID string) (*models.Expense, error) {
	if err := s.checkProjectOwnership(userID, projectID); err != nil {
		return nil, err
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND project_id = ?", expenseID, projectID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

func (s *expenseService) checkProjectOwnership(userID, projectID string) error {
	var count int64
	if err := s.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// dispatchNotice emails the project owner about a status degradation.
// It runs outside the critical section; the ledger's correctness never
// depends on delivery succeeding.
func (s *expenseService) dispatchNotice(project models.Project, notice ledger.Notice) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), noticeDispatchTimeout)
		defer cancel()

		var user models.User
		if err := s.db.Where("id = ?", project.UserID).First(&user).Error; err != nil {
			logger.Get().Errorw("notification skipped, owner lookup failed",
				"project_id", project.ID,
				"user_id", project.UserID,
				"error", err.Error(),
			)
			return
		}

		var subject, body string
		switch notice {
		case ledger.NoticeWarning:
			subject, body = notify.BudgetWarningEmail(&user, &project)
		case ledger.NoticeOutOfBudget:
			subject, body = notify.OutOfBudgetEmail(&user, &project)
		default:
			return
		}

		recipients := []notify.Recipient{{Email: user.Email, Name: user.FirstName}}
		if err := s.notifier.Send(ctx, recipients, subject, body); err != nil {
			logger.Get().Errorw("notification dispatch failed",
				"project_id", project.ID,
				"status", project.Status,
				"error", err.Error(),
			)
		}
	}()
}
