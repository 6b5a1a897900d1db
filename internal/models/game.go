package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameRecord is the persisted snapshot of one game session.
type GameRecord struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Name      string         `gorm:"size:255;not null"`
	Phase     string         `gorm:"size:50;not null;index"`
	Active    bool           `gorm:"not null;default:true;index"`
	Archived  bool           `gorm:"not null;default:false;index"`
	State     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
