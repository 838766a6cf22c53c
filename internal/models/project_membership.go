package models

import "gorm.io/gorm"

// ProjectMembership joins a member to a project. The composite unique index
// is the authoritative guard against duplicate rows; application-level
// existence checks are only a fast path for form feedback.
type ProjectMembership struct {
	gorm.Model

	MemberID  uint `gorm:"not null;uniqueIndex:idx_member_project"`
	ProjectID uint `gorm:"not null;uniqueIndex:idx_member_project"`

	// Relationships
	Member  User    `gorm:"foreignKey:MemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
