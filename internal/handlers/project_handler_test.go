package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/pagination"
	"centime/internal/services"
)

// --- mock project service ---

type mockProjectService struct {
	createProjectFn   func(userID, name, description string, total int64, threshold *float64) (*models.Project, error)
	getUserProjectsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	getProjectByIDFn  func(userID, projectID string) (*models.Project, error)
	deleteProjectFn   func(userID, projectID string) (*models.Project, error)
}

func (m *mockProjectService) CreateProject(userID, name, description string, total int64, threshold *float64) (*models.Project, error) {
	if m.createProjectFn != nil {
		return m.createProjectFn(userID, name, description, total, threshold)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) GetUserProjects(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	if m.getUserProjectsFn != nil {
		return m.getUserProjectsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Project{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockProjectService) GetProjectByID(userID, projectID string) (*models.Project, error) {
	if m.getProjectByIDFn != nil {
		return m.getProjectByIDFn(userID, projectID)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) DeleteProject(userID, projectID string) (*models.Project, error) {
	if m.deleteProjectFn != nil {
		return m.deleteProjectFn(userID, projectID)
	}
	return &models.Project{}, nil
}

var _ services.ProjectServicer = (*mockProjectService)(nil)

const testProjectID = "0190a1b2-0000-7000-8000-000000000002"

func setupProjectRouter(handler *ProjectHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/projects", handler.CreateProject)
	auth.GET("/projects", handler.GetProjects)
	auth.GET("/projects/:id", handler.GetProject)
	auth.DELETE("/projects/:id", handler.DeleteProject)
	return r
}

func TestProjectHandler_CreateProject(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockProjectService{
			createProjectFn: func(userID, name, description string, total int64, _ *float64) (*models.Project, error) {
				return &models.Project{
					Base:        models.Base{ID: testProjectID},
					UserID:      userID,
					Name:        name,
					Description: description,
					Budget:      models.Budget{Total: total, Spent: 0, Remaining: total},
					Status:      models.ProjectStatusOK,
					Threshold:   models.DefaultThreshold,
				}, nil
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "POST", "/projects",
			`{"name":"Website redesign","description":"Client site overhaul","budget_total":500000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		project := result["project"].(map[string]interface{})
		if project["name"] != "Website redesign" {
			t.Errorf("expected Website redesign, got %v", project["name"])
		}
		if project["status"] != "ok" {
			t.Errorf("expected status ok, got %v", project["status"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewProjectHandler(&mockProjectService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "POST", "/projects",
			`{"description":"Client site overhaul","budget_total":500000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_PARAMETERS")
	})

	t.Run("returns 400 on blank name", func(t *testing.T) {
		handler := NewProjectHandler(&mockProjectService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "POST", "/projects",
			`{"name":"   ","description":"Client site overhaul","budget_total":500000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on threshold above one", func(t *testing.T) {
		handler := NewProjectHandler(&mockProjectService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "POST", "/projects",
			`{"name":"Website","description":"d","budget_total":500000,"threshold":1.5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_GetProjects(t *testing.T) {
	t.Run("returns 200 with paginated projects", func(t *testing.T) {
		svc := &mockProjectService{
			getUserProjectsFn: func(string, pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
				resp := pagination.NewPageResponse([]models.Project{
					{Base: models.Base{ID: testProjectID}, Name: "Website"},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on invalid page", func(t *testing.T) {
		handler := NewProjectHandler(&mockProjectService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects?page=0", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_GetProject(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockProjectService{
			getProjectByIDFn: func(_, projectID string) (*models.Project, error) {
				return &models.Project{Base: models.Base{ID: projectID}, Name: "Website"}, nil
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewProjectHandler(&mockProjectService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockProjectService{
			getProjectByIDFn: func(_, _ string) (*models.Project, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects/"+testProjectID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
	})
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	t.Run("returns 200 with deleted project", func(t *testing.T) {
		svc := &mockProjectService{
			deleteProjectFn: func(_, projectID string) (*models.Project, error) {
				return &models.Project{Base: models.Base{ID: projectID}, Name: "Website"}, nil
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "DELETE", "/projects/"+testProjectID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockProjectService{
			deleteProjectFn: func(_, _ string) (*models.Project, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		handler := NewProjectHandler(svc)
		r := setupProjectRouter(handler)

		rec := doRequest(r, "DELETE", "/projects/"+testProjectID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
