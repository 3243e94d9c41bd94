package mirror

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
)

var organizationRules = map[string]string{
	"ID":       "required",
	"Name":     "required",
	"Email":    "required",
	"City":     "required",
	"State":    "required",
	"Postcode": "required",
	"Country":  "required",
	"URL":      "required",
}

var petRules = map[string]string{
	"ID":             "required",
	"Name":           "required",
	"Type":           "required",
	"Species":        "required",
	"Breed":          "required",
	"Color":          "required",
	"Age":            "required",
	"Gender":         "required",
	"Size":           "required",
	"Status":         "required",
	"OrganizationID": "required",
}

// Projector maps upstream payloads onto the local row shapes.
type Projector struct {
	defaultColor    string
	defaultImageURL string
	validate        *validator.Validate
}

// NewProjector builds a projector using the configured placeholders.
func NewProjector(cfg config.MirrorConfig) *Projector {
	v := validator.New()
	v.RegisterTagNameFunc(columnName)
	v.RegisterStructValidationMapRules(organizationRules, models.Organization{})
	v.RegisterStructValidationMapRules(petRules, models.Pet{})
	return &Projector{
		defaultColor:    strings.TrimSpace(cfg.DefaultColor),
		defaultImageURL: strings.TrimSpace(cfg.DefaultImageURL),
		validate:        v,
	}
}

// Organization projects an upstream organization. Missing required fields fail with CREATION_FAILED.
func (p *Projector) Organization(src *petfinder.Organization) (*models.Organization, error) {
	if src == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCreationFailed, "organization payload missing")
	}
	org := &models.Organization{
		ID:       strings.TrimSpace(src.ID),
		Name:     strings.TrimSpace(src.Name),
		Email:    deref(src.Email),
		Phone:    trimmedPtr(src.Phone),
		Address:  trimmedPtr(src.Address.Address1),
		City:     strings.TrimSpace(src.Address.City),
		State:    strings.TrimSpace(src.Address.State),
		Postcode: strings.TrimSpace(src.Address.Postcode),
		Country:  strings.TrimSpace(src.Address.Country),
		URL:      strings.TrimSpace(src.URL),
		ImageURL: p.image(src.Photos),
	}
	if err := p.check(KindOrganization, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Pet projects an upstream animal.
func (p *Projector) Pet(src *petfinder.Animal) (*models.Pet, error) {
	if src == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCreationFailed, "pet payload missing")
	}
	color := deref(src.Colors.Primary)
	if color == "" {
		color = p.defaultColor
	}
	pet := &models.Pet{
		ID:             src.ID,
		Name:           strings.TrimSpace(src.Name),
		Type:           strings.TrimSpace(src.Type),
		Species:        strings.TrimSpace(src.Species),
		Breed:          deref(src.Breeds.Primary),
		Color:          color,
		Age:            strings.TrimSpace(src.Age),
		Gender:         strings.TrimSpace(src.Gender),
		Size:           strings.TrimSpace(src.Size),
		Status:         strings.TrimSpace(src.Status),
		Description:    trimmedPtr(src.Description),
		ImageURL:       p.image(src.Photos),
		OrganizationID: strings.TrimSpace(src.OrganizationID),
	}
	if err := p.check(KindPet, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

func (p *Projector) image(photos []petfinder.Photo) *string {
	if url := petfinder.FirstPhotoURL(photos); url != "" {
		return &url
	}
	if p.defaultImageURL == "" {
		return nil
	}
	url := p.defaultImageURL
	return &url
}

func (p *Projector) check(kind Kind, row any) error {
	err := p.validate.Struct(row)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate "+string(kind))
	}
	missing := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		missing = append(missing, fe.Field())
	}
	sort.Strings(missing)
	return pkgerrors.New(pkgerrors.CodeCreationFailed, string(kind)+" is missing required fields").
		WithDetails(map[string]any{"kind": string(kind), "missing": missing})
}

// columnName reports validation failures by database column.
func columnName(fld reflect.StructField) string {
	for _, part := range strings.Split(fld.Tag.Get("gorm"), ";") {
		if name, ok := strings.CutPrefix(part, "column:"); ok {
			return name
		}
	}
	return fld.Name
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func trimmedPtr(value *string) *string {
	trimmed := deref(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
