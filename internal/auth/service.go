package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pawprint/internal/users"
	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	conflictMessage           = "username or email already taken"

	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"

	// dummyPassword feeds the hash verified for unknown usernames so both
	// failure paths cost one argon2 derivation.
	dummyPassword = "pawprint-not-a-real-password"
)

// Service defines the account operations used by the controllers and identity middleware.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error)
	User(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Taken(ctx context.Context, email, username string, exclude uuid.UUID) (bool, bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto users.UpdateUserDTO) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// ServiceParams bundles the dependencies required to build an account service.
type ServiceParams struct {
	UserRepo       userRepository
	PasswordConfig config.PasswordConfig
}

type service struct {
	users     userRepository
	hasher    *security.Hasher
	dummyHash string
}

// NewService constructs the account service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	hasher := security.NewHasher(params.PasswordConfig)
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &service{
		users:     params.UserRepo,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	firstName := strings.TrimSpace(input.FirstName)
	if email == "" || username == "" || firstName == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, username, password and first name are required")
	}

	if err := s.checkAvailable(ctx, email, username, uuid.Nil); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:             email,
		Username:          username,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          optional(input.LastName),
		ProfilePictureURL: strings.TrimSpace(input.ProfilePictureURL),
		Location:          optional(input.Location),
	})
	if err != nil {
		if conflict := conflictFromUniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if s.hasher.NeedsRehash(user.PasswordHash) {
		// The stored hash still verifies, so a failed upgrade is retried on the next login.
		if upgraded, err := s.hasher.Hash(password); err == nil {
			if err := s.users.UpdatePasswordHash(ctx, user.ID, upgraded); err == nil {
				user.PasswordHash = upgraded
			}
		}
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	firstName := strings.TrimSpace(input.FirstName)
	if email == "" || username == "" || firstName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, username and first name are required")
	}

	if err := s.checkAvailable(ctx, email, username, userID); err != nil {
		return nil, err
	}

	picture := strings.TrimSpace(input.ProfilePictureURL)
	if picture == "" {
		picture = models.DefaultProfilePictureURL
	}

	err := s.users.UpdateProfile(ctx, userID, users.UpdateUserDTO{
		Email:             email,
		Username:          username,
		FirstName:         firstName,
		LastName:          optional(input.LastName),
		ProfilePictureURL: picture,
		Location:          optional(input.Location),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if conflict := conflictFromUniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return s.User(ctx, userID)
}

func (s *service) User(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *service) checkAvailable(ctx context.Context, email, username string, exclude uuid.UUID) error {
	emailTaken, usernameTaken, err := s.users.Taken(ctx, email, username, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check uniqueness")
	}
	if !emailTaken && !usernameTaken {
		return nil
	}
	details := fieldConflicts{}
	if emailTaken {
		details["email"] = takenMessage
	}
	if usernameTaken {
		details["username"] = takenMessage
	}
	return pkgerrors.New(pkgerrors.CodeConflict, conflictMessage).WithDetails(details)
}

// conflictFromUniqueViolation covers the window between the availability check and the write.
func conflictFromUniqueViolation(err error) *pkgerrors.Error {
	details := fieldConflicts{}
	switch {
	case db.IsUniqueViolation(err, emailConstraint):
		details["email"] = takenMessage
	case db.IsUniqueViolation(err, usernameConstraint):
		details["username"] = takenMessage
	case db.IsUniqueViolation(err, ""):
	default:
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflictMessage).WithDetails(details)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
