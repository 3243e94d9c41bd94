package validators

import (
	"reflect"
	"strings"
)

type SignupForm struct {
	Email             string `json:"email" form:"email" validate:"required,email"`
	Username          string `json:"username" form:"username" validate:"required,max=50"`
	Password          string `json:"password" form:"password" validate:"required,min=6"`
	FirstName         string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName          string `json:"last_name" form:"last_name" validate:"omitempty,max=50"`
	Location          string `json:"location" form:"location" validate:"omitempty,max=100"`
	ProfilePictureURL string `json:"profile_picture_url" form:"profile_picture_url" validate:"omitempty,url"`
}

type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type EditProfileForm struct {
	Email             string `json:"email" form:"email" validate:"required,email"`
	Username          string `json:"username" form:"username" validate:"required,max=50"`
	FirstName         string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName          string `json:"last_name" form:"last_name" validate:"omitempty,max=50"`
	Location          string `json:"location" form:"location" validate:"omitempty,max=100"`
	ProfilePictureURL string `json:"profile_picture_url" form:"profile_picture_url" validate:"omitempty,url"`
}

type SearchForm struct {
	SearchTarget string `json:"search_target" form:"search_target" validate:"required,oneof=pets organizations"`
}

type PetSearchForm struct {
	Name     string `json:"name" form:"name" validate:"max=100"`
	Type     string `json:"type" form:"type" validate:"max=50"`
	Breed    string `json:"breed" form:"breed" validate:"max=100"`
	Location string `json:"location" form:"location" validate:"max=100"`
}

type OrganizationSearchForm struct {
	Name     string `json:"name" form:"name" validate:"max=100"`
	Location string `json:"location" form:"location" validate:"max=100"`
	State    string `json:"state" form:"state" validate:"max=50"`
	Country  string `json:"country" form:"country" validate:"max=50"`
}

type BookmarkForm struct {
	OrganizationID string `json:"organization_id" form:"organization_id" validate:"required,max=50"`
	PetID          int64  `json:"pet_id" form:"pet_id" validate:"required,gt=0"`
}

type FollowForm struct {
	OrganizationID string `json:"organization_id" form:"organization_id" validate:"required,max=50"`
}

type RemoveBookmarkForm struct {
	PetID int64 `json:"pet_id" form:"pet_id" validate:"required,gt=0"`
}

// FieldSchema describes one input of a form for clients rendering it.
type FieldSchema struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Secret   bool   `json:"secret,omitempty"`
}

// Schema lists the fields of a form struct in declaration order.
func Schema(formValue any) []FieldSchema {
	t := reflect.TypeOf(formValue)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make([]FieldSchema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		rules := strings.Split(f.Tag.Get("validate"), ",")
		fields = append(fields, FieldSchema{
			Name:     name,
			Required: len(rules) > 0 && rules[0] == "required",
			Secret:   name == "password",
		})
	}
	return fields
}
