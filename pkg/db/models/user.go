package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProfilePictureURL is assigned when a user signs up without an avatar.
const DefaultProfilePictureURL = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcQNMw2X0QrpOWXaB-XTgu_fwKnrnLhJhSsh3GVZm0A&s"

// User represents a registered Pawprint account.
type User struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email             string    `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Username          string    `gorm:"column:username;type:text;not null;uniqueIndex:users_username_key"`
	PasswordHash      string    `gorm:"column:password_hash;not null"`
	FirstName         string    `gorm:"column:first_name;not null"`
	LastName          *string   `gorm:"column:last_name"`
	ProfilePictureURL string    `gorm:"column:profile_picture_url;not null"`
	Location          *string   `gorm:"column:location"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns the surrogate key and avatar default in application code so
// the same insert works on Postgres and SQLite.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ProfilePictureURL == "" {
		u.ProfilePictureURL = DefaultProfilePictureURL
	}
	return nil
}
