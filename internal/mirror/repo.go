package mirror

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/pawprint/pkg/db/models"
)

// Repository reads and inserts mirrored rows. Inserts never overwrite an existing row.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a connection or an open transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *Repository) FindPet(ctx context.Context, id int64) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// InsertOrganization reports whether a new row was written.
func (r *Repository) InsertOrganization(ctx context.Context, org *models.Organization) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(org)
	return res.RowsAffected > 0, res.Error
}

// InsertPet reports whether a new row was written.
func (r *Repository) InsertPet(ctx context.Context, pet *models.Pet) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(pet)
	return res.RowsAffected > 0, res.Error
}
