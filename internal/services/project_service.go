package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "centime/internal/errors"
	"centime/internal/ledger"
	"centime/internal/logger"
	"centime/internal/models"
	"centime/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db    *gorm.DB
	locks *ProjectLocks
}

// NewProjectService creates a new ProjectServicer. The lock table must
// be the same instance the expense service uses, so project deletion
// and envelope mutations serialize against each other.
func NewProjectService(db *gorm.DB, locks *ProjectLocks) ProjectServicer {
	return &projectService{db: db, locks: locks}
}

// CreateProject creates a project with a fresh envelope: nothing spent,
// everything remaining, status derived from the initial envelope.
func (s *projectService) CreateProject(userID, name, description string, total int64, threshold *float64) (*models.Project, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "name and description are required")
	}
	if total < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "total budget must not be negative")
	}

	th := models.DefaultThreshold
	if threshold != nil {
		if *threshold < 0 || *threshold > 1 {
			return nil, apperrors.WithMessage(apperrors.ErrMissingParameters, "threshold must be between 0 and 1")
		}
		th = *threshold
	}

	project := &models.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
		Budget:      models.Budget{Total: total, Spent: 0, Remaining: total},
		Status:      ledger.Classify(total, total, th),
		Threshold:   th,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// GetUserProjects returns a paginated list of the user's projects.
func (s *projectService) GetUserProjects(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID returns a project by ID if it belongs to the user.
func (s *projectService) GetProjectByID(userID, projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// DeleteProject deletes a project and all of its expenses. The cascade
// runs inside one transaction so an expense never outlives its project;
// cascaded expense deletions do not re-credit the envelope since the
// whole project is going away.
func (s *projectService) DeleteProject(userID, projectID string) (*models.Project, error) {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	project, err := s.GetProjectByID(userID, projectID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var orphans int64
		if err := tx.Model(&models.Expense{}).Where("project_id = ?", projectID).Count(&orphans).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Expense{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if orphans > 0 {
			logger.Get().Infow("cascaded expense deletion",
				"project_id", projectID,
				"expenses_deleted", orphans,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}
