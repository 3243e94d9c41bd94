package petfinder

import "strings"

// Animal is the upstream representation of an adoptable pet.
type Animal struct {
	ID             int64    `json:"id"`
	OrganizationID string   `json:"organization_id"`
	URL            string   `json:"url"`
	Type           string   `json:"type"`
	Species        string   `json:"species"`
	Breeds         Breeds   `json:"breeds"`
	Colors         Colors   `json:"colors"`
	Age            string   `json:"age"`
	Gender         string   `json:"gender"`
	Size           string   `json:"size"`
	Coat           *string  `json:"coat"`
	Name           string   `json:"name"`
	Description    *string  `json:"description"`
	Photos         []Photo  `json:"photos"`
	Status         string   `json:"status"`
	Tags           []string `json:"tags"`
	Contact        Contact  `json:"contact"`
	PublishedAt    string   `json:"published_at"`
	Distance       *float64 `json:"distance"`
}

type Breeds struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Mixed     bool    `json:"mixed"`
	Unknown   bool    `json:"unknown"`
}

type Colors struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Tertiary  *string `json:"tertiary"`
}

// Photo holds the sized variants upstream serves for a single image.
type Photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

type Contact struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address Address `json:"address"`
}

type Address struct {
	Address1 *string `json:"address1"`
	Address2 *string `json:"address2"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Postcode string  `json:"postcode"`
	Country  string  `json:"country"`
}

// Organization is the upstream representation of an animal-welfare organization.
type Organization struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	Address          Address  `json:"address"`
	URL              string   `json:"url"`
	Website          *string  `json:"website"`
	MissionStatement *string  `json:"mission_statement"`
	Photos           []Photo  `json:"photos"`
	Distance         *float64 `json:"distance"`
}

type Pagination struct {
	CountPerPage int   `json:"count_per_page"`
	TotalCount   int   `json:"total_count"`
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	Links        Links `json:"_links"`
}

type Links struct {
	Previous *Link `json:"previous,omitempty"`
	Next     *Link `json:"next,omitempty"`
}

type Link struct {
	Href string `json:"href"`
}

type AnimalsPage struct {
	Animals    []Animal   `json:"animals"`
	Pagination Pagination `json:"pagination"`
}

type OrganizationsPage struct {
	Organizations []Organization `json:"organizations"`
	Pagination    Pagination     `json:"pagination"`
}

// Token is the bearer credential issued by the client-credentials grant.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// FirstPhotoURL returns the full-size URL of the first photo, or "" when none exist.
func FirstPhotoURL(photos []Photo) string {
	if len(photos) == 0 {
		return ""
	}
	return strings.TrimSpace(photos[0].Full)
}
