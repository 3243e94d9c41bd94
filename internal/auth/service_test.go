package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pawprint/internal/users"
	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db/dbtest"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(dbtest.Open(t)),
		PasswordConfig: testPasswordConfig,
	})
	require.NoError(t, err)
	return svc
}

func signupAda(t *testing.T, svc Service) *models.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupInput{
		Email:     " Ada@Example.com ",
		Username:  "ada",
		Password:  "analytical",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	return user
}

func conflictDetails(t *testing.T, err error) fieldConflicts {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
	details, ok := typed.Details().(fieldConflicts)
	require.True(t, ok)
	return details
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{PasswordConfig: testPasswordConfig})
	assert.Error(t, err)
}

func TestSignupHashesAndNormalizes(t *testing.T) {
	svc := newTestService(t)

	user := signupAda(t, svc)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "analytical", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$")
	assert.Equal(t, models.DefaultProfilePictureURL, user.ProfilePictureURL)
	require.NotNil(t, user.LastName)
	assert.Equal(t, "Lovelace", *user.LastName)
	assert.Nil(t, user.Location)
}

func TestSignupReportsFieldConflicts(t *testing.T) {
	svc := newTestService(t)
	signupAda(t, svc)

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:     "ada@example.com",
		Username:  "someone-else",
		Password:  "secret1",
		FirstName: "Other",
	})
	details := conflictDetails(t, err)
	assert.Equal(t, fieldConflicts{"email": takenMessage}, details)

	_, err = svc.Signup(context.Background(), SignupInput{
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "secret1",
		FirstName: "Other",
	})
	details = conflictDetails(t, err)
	assert.Equal(t, fieldConflicts{"email": takenMessage, "username": takenMessage}, details)
}

// racingRepo reports every identity as free so the unique index decides.
type racingRepo struct {
	*users.Repository
}

func (racingRepo) Taken(context.Context, string, string, uuid.UUID) (bool, bool, error) {
	return false, false, nil
}

func TestSignupRaceMapsUniqueViolationToFieldConflict(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:       racingRepo{users.NewRepository(dbtest.Open(t))},
		PasswordConfig: testPasswordConfig,
	})
	require.NoError(t, err)
	signupAda(t, svc)

	_, err = svc.Signup(context.Background(), SignupInput{
		Email:     "ada@example.com",
		Username:  "someone-else",
		Password:  "secret1",
		FirstName: "Other",
	})
	assert.Equal(t, fieldConflicts{"email": takenMessage}, conflictDetails(t, err))

	_, err = svc.Signup(context.Background(), SignupInput{
		Email:     "grace@example.com",
		Username:  "ada",
		Password:  "secret1",
		FirstName: "Grace",
	})
	assert.Equal(t, fieldConflicts{"username": takenMessage}, conflictDetails(t, err))
}

func TestSignupRequiresFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@example.com", Username: "a"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ada := signupAda(t, svc)

	user, err := svc.Authenticate(context.Background(), "ada", "analytical")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, user.ID)
}

func TestAuthenticateUpgradesHashWhenCostsChange(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t))
	oldSvc, err := NewService(ServiceParams{UserRepo: repo, PasswordConfig: testPasswordConfig})
	require.NoError(t, err)
	ada := signupAda(t, oldSvc)

	stronger := testPasswordConfig
	stronger.ArgonTime = 2
	newSvc, err := NewService(ServiceParams{UserRepo: repo, PasswordConfig: stronger})
	require.NoError(t, err)

	user, err := newSvc.Authenticate(context.Background(), "ada", "analytical")
	require.NoError(t, err)
	assert.NotEqual(t, ada.PasswordHash, user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$m=64,t=2,p=1$")

	stored, err := repo.FindByID(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)

	_, err = oldSvc.Authenticate(context.Background(), "ada", "analytical")
	require.NoError(t, err, "upgraded hashes verify under any settings")
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	signupAda(t, svc)

	_, wrongPassword := svc.Authenticate(context.Background(), "ada", "nope")
	_, unknownUser := svc.Authenticate(context.Background(), "grace", "nope")
	_, blank := svc.Authenticate(context.Background(), "", "")

	for _, err := range []error{wrongPassword, unknownUser, blank} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ada := signupAda(t, svc)

	updated, err := svc.UpdateProfile(ctx, ada.ID, ProfileInput{
		Email:     "ada@example.com",
		Username:  "ada",
		FirstName: "Augusta",
		Location:  "London",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "London", *updated.Location)
	assert.Nil(t, updated.LastName)
}

func TestUpdateProfileConflictsWithOtherUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ada := signupAda(t, svc)
	_, err := svc.Signup(ctx, SignupInput{
		Email:     "grace@example.com",
		Username:  "grace",
		Password:  "compiler",
		FirstName: "Grace",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, ada.ID, ProfileInput{
		Email:     "ada@example.com",
		Username:  "grace",
		FirstName: "Ada",
	})
	assert.Equal(t, fieldConflicts{"username": takenMessage}, conflictDetails(t, err))
}

func TestUserMissing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.User(context.Background(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
