package services

import (
	"time"

	"centime/internal/models"
	"centime/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(userID, name, description string, total int64, threshold *float64) (*models.Project, error)
	GetUserProjects(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(userID, projectID string) (*models.Project, error)
	DeleteProject(userID, projectID string) (*models.Project, error)
}

// ExpenseServicer defines the contract for the expense ledger: recording
// an expense debits the owning project's envelope, reversing one credits
// it back.
type ExpenseServicer interface {
	RecordExpense(userID, projectID string, amount int64, title, description string, incurredAt time.Time) (*models.Expense, error)
	ReverseExpense(userID, projectID, expenseID string) (*models.Expense, error)
	GetProjectExpenses(userID, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, projectID, expenseID string) (*models.Expense, error)
}
