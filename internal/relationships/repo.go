package relationships

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/pawprint/pkg/db/models"
)

// Kind names a user relationship.
type Kind string

const (
	KindBookmark Kind = "bookmark"
	KindFollow   Kind = "follow"
)

// Repository persists bookmark and follow rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a connection or an open transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the relationship and ignores duplicates.
func (r *Repository) Add(ctx context.Context, kind Kind, userID uuid.UUID, targetID string) error {
	row, err := rowFor(kind, userID, targetID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).
		Error
}

// Remove deletes the relationship and reports whether a row existed.
func (r *Repository) Remove(ctx context.Context, kind Kind, userID uuid.UUID, targetID string) (bool, error) {
	row, err := rowFor(kind, userID, targetID)
	if err != nil {
		return false, err
	}
	var res *gorm.DB
	switch typed := row.(type) {
	case *models.Bookmark:
		res = r.db.WithContext(ctx).Where("user_id = ? AND pet_id = ?", typed.UserID, typed.PetID).Delete(&models.Bookmark{})
	case *models.Follow:
		res = r.db.WithContext(ctx).Where("user_id = ? AND organization_id = ?", typed.UserID, typed.OrganizationID).Delete(&models.Follow{})
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPets returns the pets a user bookmarked, ordered by name.
func (r *Repository) ListPets(ctx context.Context, userID uuid.UUID) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).
		Table("pets p").
		Select("p.*").
		Joins("JOIN bookmarks b ON b.pet_id = p.id").
		Where("b.user_id = ?", userID).
		Order("p.name ASC").
		Order("p.id ASC").
		Scan(&pets).
		Error
	return pets, err
}

// ListOrganizations returns the organizations a user follows, ordered by name.
func (r *Repository) ListOrganizations(ctx context.Context, userID uuid.UUID) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.WithContext(ctx).
		Table("organizations o").
		Select("o.*").
		Joins("JOIN follows f ON f.organization_id = o.id").
		Where("f.user_id = ?", userID).
		Order("o.name ASC").
		Order("o.id ASC").
		Scan(&orgs).
		Error
	return orgs, err
}

func rowFor(kind Kind, userID uuid.UUID, targetID string) (any, error) {
	if userID == uuid.Nil || targetID == "" {
		return nil, gorm.ErrInvalidValue
	}
	switch kind {
	case KindBookmark:
		petID, err := strconv.ParseInt(targetID, 10, 64)
		if err != nil || petID <= 0 {
			return nil, gorm.ErrInvalidValue
		}
		return &models.Bookmark{UserID: userID, PetID: petID}, nil
	case KindFollow:
		return &models.Follow{UserID: userID, OrganizationID: targetID}, nil
	}
	return nil, fmt.Errorf("unknown relationship kind %q", kind)
}
