package stores

import (
	"errors"
	"time"

	"github.com/dariovidovic/NWP-LV7/internal/domain"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"gorm.io/gorm"
)

type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// ProjectFields is the full-field update payload. LeaderID and Archived are
// not part of it: the leader never changes and archiving has its own path.
type ProjectFields struct {
	Title       string
	Description string
	Price       float64
	WorkLog     string
	StartDate   time.Time
	EndDate     time.Time
}

func (s *ProjectStore) Create(leaderID uint, fields ProjectFields) (*models.Project, error) {
	project := models.Project{
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		WorkLog:     fields.WorkLog,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
		Archived:    false,
		LeaderID:    leaderID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		if errors.Is(err, models.ErrEndBeforeStart) {
			return nil, domain.NewValidation(err.Error())
		}
		return nil, domain.NewUpstream("Failed to create project", err)
	}

	return &project, nil
}

func (s *ProjectStore) FindByID(id uint) (*models.Project, error) {
	var project models.Project

	err := s.db.First(&project, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Project not found.")
		}
		return nil, domain.NewUpstream("Failed to fetch project", err)
	}

	return &project, nil
}

// UpdateFields replaces every editable field of the project. The record is
// loaded first so the date invariant is validated against the new values.
func (s *ProjectStore) UpdateFields(id uint, fields ProjectFields) (*models.Project, error) {
	project, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	project.Title = fields.Title
	project.Description = fields.Description
	project.Price = fields.Price
	project.WorkLog = fields.WorkLog
	project.StartDate = fields.StartDate
	project.EndDate = fields.EndDate

	if err := s.db.Save(project).Error; err != nil {
		if errors.Is(err, models.ErrEndBeforeStart) {
			return nil, domain.NewValidation(err.Error())
		}
		return nil, domain.NewUpstream("Failed to update project", err)
	}

	return project, nil
}

// UpdateWorkLog is the restricted member edit: only the work-log field moves.
func (s *ProjectStore) UpdateWorkLog(id uint, workLog string) (*models.Project, error) {
	project, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	err = s.db.Model(project).Update("work_log", workLog).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to update project", err)
	}

	project.WorkLog = workLog
	return project, nil
}

// Archive sets the archived flag. Re-archiving an archived project is a no-op
// that still succeeds.
func (s *ProjectStore) Archive(id uint) (*models.Project, error) {
	project, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	err = s.db.Model(project).Update("archived", true).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to archive project", err)
	}

	project.Archived = true
	return project, nil
}

// Delete removes the project and its membership rows in one transaction.
func (s *ProjectStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Project not found.")
			}
			return domain.NewUpstream("Failed to fetch project", err)
		}

		if err := tx.Where("project_id = ?", id).
			Delete(&models.ProjectMembership{}).Error; err != nil {
			return domain.NewUpstream("Failed to delete project members", err)
		}

		if err := tx.Delete(&project).Error; err != nil {
			return domain.NewUpstream("Failed to delete project", err)
		}

		return nil
	})
}

func (s *ProjectStore) ListActiveByLeader(leaderID uint) ([]models.Project, error) {
	return s.listByLeader(leaderID, false)
}

func (s *ProjectStore) ListArchivedByLeader(leaderID uint) ([]models.Project, error) {
	return s.listByLeader(leaderID, true)
}

func (s *ProjectStore) listByLeader(leaderID uint, archived bool) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.Where("leader_id = ? AND archived = ?", leaderID, archived).
		Order("id").Find(&projects).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to retrieve projects", err)
	}

	return projects, nil
}

func (s *ProjectStore) ListActiveByIDs(ids []uint) ([]models.Project, error) {
	return s.listByIDs(ids, false)
}

func (s *ProjectStore) ListArchivedByIDs(ids []uint) ([]models.Project, error) {
	return s.listByIDs(ids, true)
}

func (s *ProjectStore) listByIDs(ids []uint, archived bool) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var projects []models.Project

	err := s.db.Where("id IN ? AND archived = ?", ids, archived).
		Order("id").Find(&projects).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to retrieve projects", err)
	}

	return projects, nil
}
