package mirror

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db"
	"github.com/angelmondragon/pawprint/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
)

type fakeUpstream struct {
	mu            sync.Mutex
	animals       map[int64]*petfinder.Animal
	organizations map[string]*petfinder.Organization
	animalCalls   int
	orgCalls      int
	err           error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		animals:       map[int64]*petfinder.Animal{},
		organizations: map[string]*petfinder.Organization{},
	}
}

func (f *fakeUpstream) GetAnimal(_ context.Context, _ string, id int64) (*petfinder.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.animalCalls++
	if f.err != nil {
		return nil, f.err
	}
	animal, ok := f.animals[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
	}
	return animal, nil
}

func (f *fakeUpstream) GetOrganization(_ context.Context, _ string, id string) (*petfinder.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgCalls++
	if f.err != nil {
		return nil, f.err
	}
	org, ok := f.organizations[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
	}
	return org, nil
}

type recordedOutcome struct {
	kind    string
	outcome string
}

type outcomeLog []recordedOutcome

var outcomeMu sync.Mutex

func (o *outcomeLog) IncOutcome(kind, outcome string) {
	outcomeMu.Lock()
	defer outcomeMu.Unlock()
	*o = append(*o, recordedOutcome{kind: kind, outcome: outcome})
}

func strPtr(v string) *string { return &v }

func sampleOrganization(id string) *petfinder.Organization {
	return &petfinder.Organization{
		ID:    id,
		Name:  "Happy Tails",
		Email: strPtr("hello@happytails.org"),
		Phone: strPtr("555-0100"),
		Address: petfinder.Address{
			Address1: strPtr("1 Main St"),
			City:     "Portland",
			State:    "OR",
			Postcode: "97201",
			Country:  "US",
		},
		URL:    "https://example.org/" + id,
		Photos: []petfinder.Photo{{Full: "https://img.example.org/" + id + ".jpg"}},
	}
}

func sampleAnimal(id int64, orgID string) *petfinder.Animal {
	return &petfinder.Animal{
		ID:             id,
		OrganizationID: orgID,
		Type:           "Dog",
		Species:        "Dog",
		Breeds:         petfinder.Breeds{Primary: strPtr("Beagle")},
		Colors:         petfinder.Colors{Primary: strPtr("Tricolor")},
		Age:            "Young",
		Gender:         "Female",
		Size:           "Medium",
		Name:           "Biscuit",
		Description:    strPtr("Loves naps"),
		Photos:         []petfinder.Photo{{Full: "https://img.example.org/biscuit.jpg"}},
		Status:         "adoptable",
	}
}

type fixture struct {
	client   *db.Client
	upstream *fakeUpstream
	outcomes *outcomeLog
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Client(t)
	upstream := newFakeUpstream()
	outcomes := &outcomeLog{}
	svc, err := NewService(ServiceParams{
		DB:        client,
		Upstream:  upstream,
		Projector: NewProjector(config.MirrorConfig{DefaultColor: "No Color Listed"}),
		Metrics:   outcomes,
	})
	require.NoError(t, err)
	return &fixture{client: client, upstream: upstream, outcomes: outcomes, svc: svc}
}
