package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relationships
	LedProjects []Project           `gorm:"foreignKey:LeaderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []ProjectMembership `gorm:"foreignKey:MemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
