// Package mirror keeps local copies of the upstream pets and organizations a user
// has interacted with. Rows are fetched on first use and never refreshed.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/pawprint/pkg/db"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/metrics"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
)

// Kind names a mirrorable entity.
type Kind string

const (
	KindPet          Kind = "pet"
	KindOrganization Kind = "organization"
)

// ParseKind validates a kind received from a caller.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindPet:
		return KindPet, nil
	case KindOrganization:
		return KindOrganization, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown entity kind %q", value))
}

// Entity carries exactly one mirrored row matching Kind.
type Entity struct {
	Kind         Kind
	Pet          *models.Pet
	Organization *models.Organization
}

type upstream interface {
	GetAnimal(ctx context.Context, token string, id int64) (*petfinder.Animal, error)
	GetOrganization(ctx context.Context, token string, id string) (*petfinder.Organization, error)
}

type outcomeRecorder interface {
	IncOutcome(kind, outcome string)
}

// ServiceParams bundles the mirror dependencies.
type ServiceParams struct {
	DB        *db.Client
	Upstream  upstream
	Projector *Projector
	Metrics   outcomeRecorder
}

// Service implements lazy get-or-create of upstream entities.
type Service struct {
	db        *db.Client
	upstream  upstream
	projector *Projector
	metrics   outcomeRecorder
}

// NewService validates and stores the mirror dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if params.Projector == nil {
		return nil, fmt.Errorf("projector is required")
	}
	return &Service{
		db:        params.DB,
		upstream:  params.Upstream,
		projector: params.Projector,
		metrics:   params.Metrics,
	}, nil
}

// EnsureLocal dispatches to EnsurePet or EnsureOrganization.
func (s *Service) EnsureLocal(ctx context.Context, kind Kind, id, token string) (Entity, error) {
	switch kind {
	case KindOrganization:
		org, err := s.EnsureOrganization(ctx, token, id)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Kind: kind, Organization: org}, nil
	case KindPet:
		petID, err := ParsePetID(id)
		if err != nil {
			return Entity{}, err
		}
		pet, err := s.EnsurePet(ctx, token, petID)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Kind: kind, Pet: pet}, nil
	}
	return Entity{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown entity kind %q", kind))
}

// EnsureOrganization returns the mirrored organization, fetching and inserting it on first use.
func (s *Service) EnsureOrganization(ctx context.Context, token, id string) (*models.Organization, error) {
	org, err := s.ResolveOrganization(ctx, token, id)
	if err != nil {
		return nil, err
	}
	return s.PersistOrganization(ctx, s.db.DB(), org)
}

// EnsurePet returns the mirrored pet. Its organization is mirrored in the same transaction.
func (s *Service) EnsurePet(ctx context.Context, token string, id int64) (*models.Pet, error) {
	pet, err := s.ResolvePet(ctx, token, id)
	if err != nil {
		return nil, err
	}
	org, err := s.ResolveOrganization(ctx, token, pet.OrganizationID)
	if err != nil {
		return nil, err
	}

	var persisted *models.Pet
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.PersistOrganization(ctx, tx, org); err != nil {
			return err
		}
		persisted, err = s.PersistPet(ctx, tx, pet)
		return err
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// ResolveOrganization returns the local row when mirrored, otherwise the projected upstream payload.
// Nothing is written.
func (s *Service) ResolveOrganization(ctx context.Context, token, id string) (*models.Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization_id is required")
	}

	local, err := NewRepository(s.db.DB()).FindOrganization(ctx, id)
	if err == nil {
		s.record(KindOrganization, metrics.MirrorHit)
		return local, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup organization")
	}

	remote, err := s.upstream.GetOrganization(ctx, token, id)
	if err != nil {
		s.record(KindOrganization, metrics.MirrorFailed)
		return nil, err
	}
	org, err := s.projector.Organization(remote)
	if err != nil {
		s.record(KindOrganization, metrics.MirrorFailed)
		return nil, err
	}
	return org, nil
}

// ResolvePet mirrors ResolveOrganization for pets.
func (s *Service) ResolvePet(ctx context.Context, token string, id int64) (*models.Pet, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet_id must be a positive integer")
	}

	local, err := NewRepository(s.db.DB()).FindPet(ctx, id)
	if err == nil {
		s.record(KindPet, metrics.MirrorHit)
		return local, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}

	remote, err := s.upstream.GetAnimal(ctx, token, id)
	if err != nil {
		s.record(KindPet, metrics.MirrorFailed)
		return nil, err
	}
	pet, err := s.projector.Pet(remote)
	if err != nil {
		s.record(KindPet, metrics.MirrorFailed)
		return nil, err
	}
	return pet, nil
}

// PersistOrganization inserts org unless a row with the same id exists and returns the stored row.
func (s *Service) PersistOrganization(ctx context.Context, conn *gorm.DB, org *models.Organization) (*models.Organization, error) {
	repo := NewRepository(conn)
	created, err := repo.InsertOrganization(ctx, org)
	if err != nil {
		s.record(KindOrganization, metrics.MirrorFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeCreationFailed, err, "persist organization")
	}
	if created {
		s.record(KindOrganization, metrics.MirrorCreated)
	}
	stored, err := repo.FindOrganization(ctx, org.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload organization")
	}
	return stored, nil
}

// PersistPet inserts pet unless a row with the same id exists. The organization row must already be present on conn.
func (s *Service) PersistPet(ctx context.Context, conn *gorm.DB, pet *models.Pet) (*models.Pet, error) {
	repo := NewRepository(conn)
	created, err := repo.InsertPet(ctx, pet)
	if err != nil {
		s.record(KindPet, metrics.MirrorFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeCreationFailed, err, "persist pet")
	}
	if created {
		s.record(KindPet, metrics.MirrorCreated)
	}
	stored, err := repo.FindPet(ctx, pet.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload pet")
	}
	return stored, nil
}

// ParsePetID parses the decimal pet id used in forms and paths.
func ParsePetID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pet_id must be a positive integer")
	}
	return id, nil
}

func (s *Service) record(kind Kind, outcome string) {
	if s.metrics != nil {
		s.metrics.IncOutcome(string(kind), outcome)
	}
}
