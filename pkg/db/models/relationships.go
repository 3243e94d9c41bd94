package models

import "github.com/google/uuid"

// Bookmark links a user to a saved pet. Presence is the whole state.
type Bookmark struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	PetID  int64     `gorm:"column:pet_id;primaryKey;autoIncrement:false"`
}

func (Bookmark) TableName() string { return "bookmarks" }

// Follow links a user to a tracked organization.
type Follow struct {
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	OrganizationID string    `gorm:"column:organization_id;type:text;primaryKey"`
}

func (Follow) TableName() string { return "follows" }
