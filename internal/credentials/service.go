// Package credentials obtains upstream bearer tokens and keeps them on the visitor session.
package credentials

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
)

type tokenIssuer interface {
	IssueToken(ctx context.Context) (*petfinder.Token, error)
}

// TokenHolder is the slice of session state the service reads and writes.
type TokenHolder interface {
	AccessToken() string
	SetAccessToken(token string)
}

// Service issues client-credentials tokens against the upstream API.
type Service struct {
	issuer tokenIssuer
}

// NewService wires the upstream token issuer.
func NewService(issuer tokenIssuer) (*Service, error) {
	if issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	return &Service{issuer: issuer}, nil
}

// Issue performs the client-credentials grant and returns the bearer token.
func (s *Service) Issue(ctx context.Context) (string, error) {
	token, err := s.issuer.IssueToken(ctx)
	if err != nil {
		return "", err
	}
	if token == nil || strings.TrimSpace(token.AccessToken) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "upstream returned an empty access token")
	}
	return token.AccessToken, nil
}

// Ensure returns the token already held by the session, issuing and storing one when absent.
// Expired tokens are not refreshed here; the upstream rejects them and callers surface that.
func (s *Service) Ensure(ctx context.Context, holder TokenHolder) (string, error) {
	if token := holder.AccessToken(); token != "" {
		return token, nil
	}
	token, err := s.Issue(ctx)
	if err != nil {
		return "", err
	}
	holder.SetAccessToken(token)
	return token, nil
}
