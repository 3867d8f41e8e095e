package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/pagination"
	"centime/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	recordExpenseFn      func(userID, projectID string, amount int64, title, description string, incurredAt time.Time) (*models.Expense, error)
	reverseExpenseFn     func(userID, projectID, expenseID string) (*models.Expense, error)
	getProjectExpensesFn func(userID, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn     func(userID, projectID, expenseID string) (*models.Expense, error)
}

func (m *mockExpenseService) RecordExpense(userID, projectID string, amount int64, title, description string, incurredAt time.Time) (*models.Expense, error) {
	if m.recordExpenseFn != nil {
		return m.recordExpenseFn(userID, projectID, amount, title, description, incurredAt)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) ReverseExpense(userID, projectID, expenseID string) (*models.Expense, error) {
	if m.reverseExpenseFn != nil {
		return m.reverseExpenseFn(userID, projectID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetProjectExpenses(userID, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.getProjectExpensesFn != nil {
		return m.getProjectExpensesFn(userID, projectID, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, projectID, expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, projectID, expenseID)
	}
	return &models.Expense{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

const testExpenseID = "0190a1b2-0000-7000-8000-000000000003"

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/projects/:id/expenses", handler.RecordExpense)
	auth.GET("/projects/:id/expenses", handler.GetExpenses)
	auth.GET("/projects/:id/expenses/:expense_id", handler.GetExpense)
	auth.DELETE("/projects/:id/expenses/:expense_id", handler.ReverseExpense)
	return r
}

func TestExpenseHandler_RecordExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			recordExpenseFn: func(_, projectID string, amount int64, title, description string, incurredAt time.Time) (*models.Expense, error) {
				return &models.Expense{
					Base:        models.Base{ID: testExpenseID},
					ProjectID:   projectID,
					Amount:      amount,
					Title:       title,
					Description: description,
					IncurredAt:  incurredAt,
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"amount":2500,"title":"Hosting","description":"Monthly hosting bill","incurred_at":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["amount"].(float64) != 2500 {
			t.Errorf("expected amount 2500, got %v", expense["amount"])
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"amount":0,"title":"Hosting","description":"d","incurred_at":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_PARAMETERS")
	})

	t.Run("returns 400 on missing incurred_at", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"amount":2500,"title":"Hosting","description":"d"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on insufficient budget", func(t *testing.T) {
		svc := &mockExpenseService{
			recordExpenseFn: func(_, _ string, _ int64, _, _ string, _ time.Time) (*models.Expense, error) {
				return nil, apperrors.ErrInsufficientBudget
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"amount":999999,"title":"Hosting","description":"d","incurred_at":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_BUDGET")
	})

	t.Run("returns 404 on unknown project", func(t *testing.T) {
		svc := &mockExpenseService{
			recordExpenseFn: func(_, _ string, _ int64, _, _ string, _ time.Time) (*models.Expense, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"amount":2500,"title":"Hosting","description":"d","incurred_at":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
	})

	t.Run("returns 400 on malformed project id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/projects/not-a-uuid/expenses",
			`{"amount":2500,"title":"Hosting","description":"d","incurred_at":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("returns 200 with paginated expenses", func(t *testing.T) {
		svc := &mockExpenseService{
			getProjectExpensesFn: func(_, _ string, _ pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				resp := pagination.NewPageResponse([]models.Expense{
					{Base: models.Base{ID: testExpenseID}, Amount: 2500},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/expenses", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("returns 404 on unknown project", func(t *testing.T) {
		svc := &mockExpenseService{
			getProjectExpensesFn: func(_, _ string, _ pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/expenses", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, _, expenseID string) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: expenseID}, Amount: 2500}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/expenses/"+testExpenseID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, _, _ string) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/expenses/"+testExpenseID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("returns 400 on malformed expense id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/expenses/bogus", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_ReverseExpense(t *testing.T) {
	t.Run("returns 200 with reversed expense", func(t *testing.T) {
		svc := &mockExpenseService{
			reverseExpenseFn: func(_, _, expenseID string) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: expenseID}, Amount: 2500}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/projects/"+testProjectID+"/expenses/"+testExpenseID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["id"] != testExpenseID {
			t.Errorf("expected expense id %s, got %v", testExpenseID, expense["id"])
		}
	})

	t.Run("returns 404 when expense not found", func(t *testing.T) {
		svc := &mockExpenseService{
			reverseExpenseFn: func(_, _, _ string) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/projects/"+testProjectID+"/expenses/"+testExpenseID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
