package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/api/validators"
	"github.com/angelmondragon/pawprint/internal/relationships"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/types"
)

type relationshipService interface {
	BookmarkPet(ctx context.Context, userID uuid.UUID, token, organizationID string, petID int64) (*models.Pet, error)
	FollowOrganization(ctx context.Context, userID uuid.UUID, token, organizationID string) (*models.Organization, error)
	RemoveBookmark(ctx context.Context, userID uuid.UUID, petID int64) (bool, error)
	RemoveFollow(ctx context.Context, userID uuid.UUID, organizationID string) (bool, error)
	Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Pet, error)
	Follows(ctx context.Context, userID uuid.UUID) ([]models.Organization, error)
}

func Bookmarks(svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		pets, err := svc.Bookmarks(r.Context(), user.ID)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, relationships.NewBookmarksDTO(pets))
	}
}

func Follows(svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		orgs, err := svc.Follows(r.Context(), user.ID)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, relationships.NewFollowsDTO(orgs))
	}
}

// BookmarkPet bookmarks the pet and follows its organization.
func BookmarkPet(tokens tokenSource, svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		var body validators.BookmarkForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}
		token, err := upstreamToken(r, tokens)
		if err != nil {
			fail(w, r, logg, err)
			return
		}

		pet, err := svc.BookmarkPet(r.Context(), user.ID, token, body.OrganizationID, body.PetID)
		if err != nil {
			fail(w, r, logg, err, danger("We could not bookmark that pet."))
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"pet_id": pet.ID, "organization_id": pet.OrganizationID})
		logg.Info(ctx, "bookmark.created")
		redirect(w, "/pets", types.NoticeSuccess,
			fmt.Sprintf("Successfully bookmarked %s to your profile, %s!", pet.Name, user.FirstName))
	}
}

func FollowOrganization(tokens tokenSource, svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		var body validators.FollowForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}
		token, err := upstreamToken(r, tokens)
		if err != nil {
			fail(w, r, logg, err)
			return
		}

		org, err := svc.FollowOrganization(r.Context(), user.ID, token, body.OrganizationID)
		if err != nil {
			fail(w, r, logg, err, danger("We could not follow that organization."))
			return
		}
		redirect(w, "/organizations", types.NoticeSuccess,
			fmt.Sprintf("You are now following %s, %s!", org.Name, user.FirstName))
	}
}

func RemoveBookmark(svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		var body validators.RemoveBookmarkForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}
		removed, err := svc.RemoveBookmark(r.Context(), user.ID, body.PetID)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		if !removed {
			redirect(w, "/bookmarks", types.NoticeInfo, "That pet was not bookmarked.")
			return
		}
		redirect(w, "/bookmarks", types.NoticeSuccess, "Bookmark removed.")
	}
}

func RemoveFollow(svc relationshipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := requestUser(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		var body validators.FollowForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err)
			return
		}
		removed, err := svc.RemoveFollow(r.Context(), user.ID, body.OrganizationID)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		if !removed {
			redirect(w, "/follows", types.NoticeInfo, "You were not following that organization.")
			return
		}
		redirect(w, "/follows", types.NoticeSuccess, "Organization unfollowed.")
	}
}
