package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centime/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     fmt.Sprintf("user%d@test.com", nextID()),
		Password:  string(hash),
		FirstName: "Test",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project with the given total budget (in
// cents), a fresh envelope, and the default threshold.
func CreateTestProject(t *testing.T, db *gorm.DB, userID string, total int64) *models.Project {
	t.Helper()
	return CreateTestProjectWithThreshold(t, db, userID, total, models.DefaultThreshold)
}

// CreateTestProjectWithThreshold creates a project with the given total and
// warning threshold.
func CreateTestProjectWithThreshold(t *testing.T, db *gorm.DB, userID string, total int64, threshold float64) *models.Project {
	t.Helper()

	status := models.ProjectStatusOK
	if total == 0 {
		status = models.ProjectStatusOutOfBudget
	}

	project := &models.Project{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Project %d", nextID()),
		Description: "A test project",
		Budget:      models.Budget{Total: total, Spent: 0, Remaining: total},
		Status:      status,
		Threshold:   threshold,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestExpense inserts an expense row directly, without touching
// the project's envelope. Use the expense service when the debit should
// be applied.
func CreateTestExpense(t *testing.T, db *gorm.DB, projectID string, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ProjectID:   projectID,
		Amount:      amount,
		Title:       fmt.Sprintf("Test Expense %d", nextID()),
		Description: "A test expense",
		IncurredAt:  time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
