// Package listings serves upstream search and detail results without mirroring them.
package listings

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/angelmondragon/pawprint/internal/searchstate"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
)

type upstream interface {
	ListAnimals(ctx context.Context, token string, params url.Values) (*petfinder.AnimalsPage, error)
	GetAnimal(ctx context.Context, token string, id int64) (*petfinder.Animal, error)
	ListOrganizations(ctx context.Context, token string, params url.Values) (*petfinder.OrganizationsPage, error)
	GetOrganization(ctx context.Context, token string, id string) (*petfinder.Organization, error)
}

// PageInfo summarizes upstream pagination for views.
type PageInfo struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	TotalCount int  `json:"total_count"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

type PetPage struct {
	Pets       []petfinder.Animal  `json:"pets"`
	Filters    searchstate.Filters `json:"filters"`
	Pagination PageInfo            `json:"pagination"`
}

type OrganizationPage struct {
	Organizations []petfinder.Organization `json:"organizations"`
	Filters       searchstate.Filters      `json:"filters"`
	Pagination    PageInfo                 `json:"pagination"`
}

// Service wraps the upstream list and detail endpoints.
type Service struct {
	upstream upstream
}

func NewService(u upstream) (*Service, error) {
	if u == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	return &Service{upstream: u}, nil
}

// SearchPets fetches one page of animals for the canonical query.
func (s *Service) SearchPets(ctx context.Context, token string, q searchstate.Query) (*PetPage, error) {
	page, err := s.upstream.ListAnimals(ctx, token, q.Values())
	if err != nil {
		return nil, err
	}
	pets := page.Animals
	if pets == nil {
		pets = []petfinder.Animal{}
	}
	return &PetPage{Pets: pets, Filters: q.Filters, Pagination: pageInfo(page.Pagination, q)}, nil
}

// SearchOrganizations fetches one page of organizations for the canonical query.
func (s *Service) SearchOrganizations(ctx context.Context, token string, q searchstate.Query) (*OrganizationPage, error) {
	page, err := s.upstream.ListOrganizations(ctx, token, q.Values())
	if err != nil {
		return nil, err
	}
	orgs := page.Organizations
	if orgs == nil {
		orgs = []petfinder.Organization{}
	}
	return &OrganizationPage{Organizations: orgs, Filters: q.Filters, Pagination: pageInfo(page.Pagination, q)}, nil
}

func (s *Service) GetPet(ctx context.Context, token, id string) (*petfinder.Animal, error) {
	petID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || petID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet id must be a positive integer")
	}
	return s.upstream.GetAnimal(ctx, token, petID)
}

func (s *Service) GetOrganization(ctx context.Context, token, id string) (*petfinder.Organization, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id is required")
	}
	return s.upstream.GetOrganization(ctx, token, id)
}

func pageInfo(p petfinder.Pagination, q searchstate.Query) PageInfo {
	current := p.CurrentPage
	if current == 0 {
		current = q.Page
	}
	perPage := p.CountPerPage
	if perPage == 0 {
		perPage = q.Limit
	}
	return PageInfo{
		Page:       current,
		PerPage:    perPage,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalCount,
		HasPrev:    current > 1,
		HasNext:    p.Links.Next != nil || current < p.TotalPages,
	}
}
