// Package relationships manages user bookmarks of pets and follows of organizations.
package relationships

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pawprint/pkg/db"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
)

type entityMirror interface {
	ResolveOrganization(ctx context.Context, token, id string) (*models.Organization, error)
	ResolvePet(ctx context.Context, token string, id int64) (*models.Pet, error)
	PersistOrganization(ctx context.Context, conn *gorm.DB, org *models.Organization) (*models.Organization, error)
	PersistPet(ctx context.Context, conn *gorm.DB, pet *models.Pet) (*models.Pet, error)
}

// Service composes the mirror and the relationship rows into user-facing actions.
type Service struct {
	db     *db.Client
	mirror entityMirror
}

// NewService wires the relationship service.
func NewService(client *db.Client, m entityMirror) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if m == nil {
		return nil, fmt.Errorf("mirror is required")
	}
	return &Service{db: client, mirror: m}, nil
}

// BookmarkPet mirrors the pet and its organization when needed, then bookmarks the pet
// and follows the organization. All four rows commit together.
func (s *Service) BookmarkPet(ctx context.Context, userID uuid.UUID, token, organizationID string, petID int64) (*models.Pet, error) {
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization_id is required")
	}

	pet, err := s.mirror.ResolvePet(ctx, token, petID)
	if err != nil {
		return nil, err
	}
	if pet.OrganizationID != organizationID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet does not belong to organization").
			WithDetails(map[string]string{"organization_id": "does not match the pet's organization"})
	}
	org, err := s.mirror.ResolveOrganization(ctx, token, organizationID)
	if err != nil {
		return nil, err
	}

	var stored *models.Pet
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.mirror.PersistOrganization(ctx, tx, org); err != nil {
			return err
		}
		stored, err = s.mirror.PersistPet(ctx, tx, pet)
		if err != nil {
			return err
		}
		repo := NewRepository(tx)
		if err := repo.Add(ctx, KindBookmark, userID, strconv.FormatInt(stored.ID, 10)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add bookmark")
		}
		if err := repo.Add(ctx, KindFollow, userID, organizationID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add follow")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// FollowOrganization mirrors the organization when needed and follows it.
func (s *Service) FollowOrganization(ctx context.Context, userID uuid.UUID, token, organizationID string) (*models.Organization, error) {
	org, err := s.mirror.ResolveOrganization(ctx, token, organizationID)
	if err != nil {
		return nil, err
	}

	var stored *models.Organization
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		stored, err = s.mirror.PersistOrganization(ctx, tx, org)
		if err != nil {
			return err
		}
		if err := NewRepository(tx).Add(ctx, KindFollow, userID, stored.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add follow")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// RemoveBookmark deletes the bookmark; the mirrored pet stays.
func (s *Service) RemoveBookmark(ctx context.Context, userID uuid.UUID, petID int64) (bool, error) {
	removed, err := NewRepository(s.db.DB()).Remove(ctx, KindBookmark, userID, strconv.FormatInt(petID, 10))
	if err != nil {
		return false, wrapRepoErr(err, "remove bookmark")
	}
	return removed, nil
}

// RemoveFollow deletes the follow; bookmarks of the organization's pets stay.
func (s *Service) RemoveFollow(ctx context.Context, userID uuid.UUID, organizationID string) (bool, error) {
	removed, err := NewRepository(s.db.DB()).Remove(ctx, KindFollow, userID, strings.TrimSpace(organizationID))
	if err != nil {
		return false, wrapRepoErr(err, "remove follow")
	}
	return removed, nil
}

func (s *Service) Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Pet, error) {
	pets, err := NewRepository(s.db.DB()).ListPets(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookmarks")
	}
	return pets, nil
}

func (s *Service) Follows(ctx context.Context, userID uuid.UUID) ([]models.Organization, error) {
	orgs, err := NewRepository(s.db.DB()).ListOrganizations(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list follows")
	}
	return orgs, nil
}

func wrapRepoErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrInvalidValue) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
