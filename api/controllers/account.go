package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/api/validators"
	"github.com/angelmondragon/pawprint/internal/auth"
	"github.com/angelmondragon/pawprint/internal/users"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/types"
)

type formView struct {
	Form []validators.FieldSchema `json:"form"`
}

func SignupForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, formView{Form: validators.Schema(validators.SignupForm{})})
	}
}

// Signup creates the account and logs the visitor in.
func Signup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := sessionState(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}

		var body validators.SignupForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}

		user, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:             body.Email,
			Username:          body.Username,
			Password:          body.Password,
			FirstName:         body.FirstName,
			LastName:          body.LastName,
			ProfilePictureURL: body.ProfilePictureURL,
			Location:          body.Location,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
				fail(w, r, logg, err, danger("Username or email already taken."))
				return
			}
			fail(w, r, logg, err)
			return
		}

		state.SetUserID(user.ID)
		redirect(w, "/home", types.NoticeSuccess, fmt.Sprintf("Welcome to Pawprint, %s!", user.FirstName))
	}
}

func LoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, formView{Form: validators.Schema(validators.LoginForm{})})
	}
}

func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := sessionState(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}

		var body validators.LoginForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), body.Username, body.Password)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
				fail(w, r, logg, err, danger("Invalid credentials."))
				return
			}
			fail(w, r, logg, err)
			return
		}

		state.SetUserID(user.ID)
		redirect(w, "/home", types.NoticeSuccess, fmt.Sprintf("Welcome back, %s!", user.FirstName))
	}
}

// Logout forgets the user but keeps the visitor's token and search state.
func Logout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := sessionState(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		state.ClearUser()
		redirect(w, "/home", types.NoticeSuccess, "Logout successful.")
	}
}

type profileView struct {
	User *users.UserDTO           `json:"user"`
	Form []validators.FieldSchema `json:"form"`
}

func Profile(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, profileView{User: user, Form: validators.Schema(validators.EditProfileForm{})})
	}
}

func UpdateProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}

		var body validators.EditProfileForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), current.ID, auth.ProfileInput{
			Email:             body.Email,
			Username:          body.Username,
			FirstName:         body.FirstName,
			LastName:          body.LastName,
			ProfilePictureURL: body.ProfilePictureURL,
			Location:          body.Location,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
				fail(w, r, logg, err, danger("Username or email already taken."))
				return
			}
			fail(w, r, logg, err)
			return
		}

		redirect(w, "/profile", types.NoticeSuccess, fmt.Sprintf("Profile updated, %s!", updated.FirstName))
	}
}
