package auth

// SignupInput captures the fields accepted by the signup form.
type SignupInput struct {
	Email             string
	Username          string
	Password          string
	FirstName         string
	LastName          string
	ProfilePictureURL string
	Location          string
}

// ProfileInput captures the editable profile fields.
type ProfileInput struct {
	Email             string
	Username          string
	FirstName         string
	LastName          string
	ProfilePictureURL string
	Location          string
}

// fieldConflicts is reported as error details when email or username collide.
type fieldConflicts map[string]string

const takenMessage = "already taken"
