package models

import "gorm.io/datatypes"

// Sage is a playable character (e.g., "Ember", "Tide").
type Sage struct {
	ID                string `gorm:"primaryKey;size:64"`
	Name              string `gorm:"size:100;unique;not null"`
	Description       string
	DefaultDecklistID string `gorm:"size:64;not null"`

	Decklists []Decklist `gorm:"foreignKey:SageID"`
}

// Decklist is an ordered card list playable with one sage.
type Decklist struct {
	ID     string                      `gorm:"primaryKey;size:64"`
	Name   string                      `gorm:"size:255;not null"`
	SageID string                      `gorm:"size:64;not null;index"`
	Cards  datatypes.JSONSlice[string] `gorm:"not null"`
}
