package relationships

import "github.com/angelmondragon/pawprint/pkg/db/models"

// PetSummary is the transport view of a mirrored pet.
type PetSummary struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Species        string  `json:"species"`
	Breed          string  `json:"breed"`
	Color          string  `json:"color"`
	Age            string  `json:"age"`
	Gender         string  `json:"gender"`
	Size           string  `json:"size"`
	Status         string  `json:"status"`
	Description    *string `json:"description,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	OrganizationID string  `json:"organization_id"`
}

// OrganizationSummary is the transport view of a mirrored organization.
type OrganizationSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Postcode string  `json:"postcode"`
	Country  string  `json:"country"`
	URL      string  `json:"url"`
	ImageURL *string `json:"image_url,omitempty"`
}

// BookmarksDTO lists the pets a user bookmarked.
type BookmarksDTO struct {
	Pets []PetSummary `json:"pets"`
}

// FollowsDTO lists the organizations a user follows.
type FollowsDTO struct {
	Organizations []OrganizationSummary `json:"organizations"`
}

func NewBookmarksDTO(pets []models.Pet) BookmarksDTO {
	out := BookmarksDTO{Pets: make([]PetSummary, 0, len(pets))}
	for _, p := range pets {
		out.Pets = append(out.Pets, PetSummary{
			ID:             p.ID,
			Name:           p.Name,
			Type:           p.Type,
			Species:        p.Species,
			Breed:          p.Breed,
			Color:          p.Color,
			Age:            p.Age,
			Gender:         p.Gender,
			Size:           p.Size,
			Status:         p.Status,
			Description:    p.Description,
			ImageURL:       p.ImageURL,
			OrganizationID: p.OrganizationID,
		})
	}
	return out
}

func NewFollowsDTO(orgs []models.Organization) FollowsDTO {
	out := FollowsDTO{Organizations: make([]OrganizationSummary, 0, len(orgs))}
	for _, o := range orgs {
		out.Organizations = append(out.Organizations, OrganizationSummary{
			ID:       o.ID,
			Name:     o.Name,
			Email:    o.Email,
			Phone:    o.Phone,
			Address:  o.Address,
			City:     o.City,
			State:    o.State,
			Postcode: o.Postcode,
			Country:  o.Country,
			URL:      o.URL,
			ImageURL: o.ImageURL,
		})
	}
	return out
}
