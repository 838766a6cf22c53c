package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEndBeforeStart = errors.New("End date must be after start date")

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Price       float64
	WorkLog     string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time
	Archived    bool `gorm:"not null;default:false"`
	LeaderID    uint `gorm:"not null;index"`

	// Relationships
	Leader      User                `gorm:"foreignKey:LeaderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// BeforeSave runs on every write path, so the date invariant holds for
// creates and full-field updates alike.
func (p *Project) BeforeSave(tx *gorm.DB) error {
	if p.StartDate.IsZero() {
		p.StartDate = time.Now()
	}

	if !p.EndDate.IsZero() && !p.EndDate.After(p.StartDate) {
		return ErrEndBeforeStart
	}

	return nil
}
