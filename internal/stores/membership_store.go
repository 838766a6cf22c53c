package stores

import (
	"errors"

	"github.com/dariovidovic/NWP-LV7/internal/domain"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"gorm.io/gorm"
)

type MembershipStore struct {
	db *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) Exists(memberID, projectID uint) (bool, error) {
	var count int64

	err := s.db.Model(&models.ProjectMembership{}).
		Where("member_id = ? AND project_id = ?", memberID, projectID).
		Count(&count).Error

	if err != nil {
		return false, domain.NewUpstream("Failed to check existing member", err)
	}

	return count > 0, nil
}

// Add inserts the membership row. The composite unique index makes the
// database the final arbiter on duplicates regardless of any prior Exists
// call racing with a concurrent insert.
func (s *MembershipStore) Add(memberID, projectID uint) error {
	membership := models.ProjectMembership{
		MemberID:  memberID,
		ProjectID: projectID,
	}

	if err := s.db.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicate("User is already added to the project.")
		}
		return domain.NewUpstream("Failed to add member to the project", err)
	}

	return nil
}

// ListByProject returns the project's membership rows with member identities
// preloaded.
func (s *MembershipStore) ListByProject(projectID uint) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership

	err := s.db.Preload("Member").
		Where("project_id = ?", projectID).
		Order("id").Find(&memberships).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to fetch project members", err)
	}

	return memberships, nil
}

// ProjectIDsForMember returns the distinct project ids the user belongs to.
func (s *MembershipStore) ProjectIDsForMember(memberID uint) ([]uint, error) {
	var ids []uint

	err := s.db.Model(&models.ProjectMembership{}).
		Where("member_id = ?", memberID).
		Distinct().Pluck("project_id", &ids).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to fetch memberships", err)
	}

	return ids, nil
}
