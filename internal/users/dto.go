package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pawprint/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	FirstName         string    `json:"first_name"`
	LastName          *string   `json:"last_name,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	Location          *string   `json:"location,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email             string
	Username          string
	PasswordHash      string
	FirstName         string
	LastName          *string
	ProfilePictureURL string
	Location          *string
}

// UpdateUserDTO carries the editable profile fields. Empty optionals clear the column.
type UpdateUserDTO struct {
	Email             string
	Username          string
	FirstName         string
	LastName          *string
	ProfilePictureURL string
	Location          *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ProfilePictureURL: u.ProfilePictureURL,
		Location:          u.Location,
		CreatedAt:         u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	picture := c.ProfilePictureURL
	if picture == "" {
		picture = models.DefaultProfilePictureURL
	}
	return &models.User{
		Email:             c.Email,
		Username:          c.Username,
		PasswordHash:      c.PasswordHash,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		ProfilePictureURL: picture,
		Location:          c.Location,
	}
}
