package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/polar-health-link/internal/config"
	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/internal/metrics"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
	"github.com/jrsteele09/polar-health-link/sessions"
	"github.com/jrsteele09/polar-health-link/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	stateLength = 32

	authorizationPath = "/oauth2/authorization"
	tokenPath         = "/oauth2/token"
)

// Repos holds the stores the authorization flow reads and writes
type Repos struct {
	Sessions sessions.Repo // Pending authorization states
	Tokens   token.Repo    // Access credentials by user
}

// AuthorizationResult is returned from a completed authorization.
type AuthorizationResult struct {
	UserID string                   // User resolved from the consumed session
	Token  oauthmodel.TokenResponse // Token payload as issued by the partner
}

// AuthorizationService drives the partner authorization code flow.
type AuthorizationService struct {
	repos      Repos
	oauth      *oauth2.Config
	httpClient *http.Client     // Used for the server-to-server token exchange
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// WithHTTPClient sets the client used for the token exchange
func WithHTTPClient(client *http.Client) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.httpClient = client
	}
}

// NewOAuthConfig builds the partner client registration. Client credentials travel in the
// form body, which is what the partner token endpoint expects.
func NewOAuthConfig(c config.PolarConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		RedirectURL:  c.GetRedirectURI(),
		Scopes:       c.GetScopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.GetAuthBaseURL() + authorizationPath,
			TokenURL:  c.GetAuthBaseURL() + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required dependencies.
// Optional configuration can be provided via options (e.g., WithNowTime for testing).
func NewAuthorizationService(repos Repos, oauthConfig *oauth2.Config, options ...AuthorizationServiceOption) (*AuthorizationService, error) {
	if repos.Sessions == nil {
		return nil, errors.New("[NewAuthorizationService] Sessions repo is required")
	}
	if repos.Tokens == nil {
		return nil, errors.New("[NewAuthorizationService] Tokens repo is required")
	}
	if oauthConfig == nil {
		return nil, errors.New("[NewAuthorizationService] oauth config is required")
	}

	as := &AuthorizationService{
		repos:      repos,
		oauth:      oauthConfig,
		httpClient: http.DefaultClient,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// StartAuthorization records a fresh state for userID and returns the partner authorization URL.
// The only error source is the session store.
func (as *AuthorizationService) StartAuthorization(userID string) (string, error) {
	state := generateState()
	if err := as.repos.Sessions.Upsert(state, &sessions.Session{
		UserID:    userID,
		CreatedAt: as.nowTime(),
	}); err != nil {
		return "", apperrors.Wrapf(err, "[AuthorizationService.StartAuthorization] sessions.Upsert")
	}

	log.Info().Str("user", userID).Msg("authorization started")
	return as.oauth.AuthCodeURL(state), nil
}

// CompleteAuthorization redeems code for an access token. The state must belong to a live session;
// on success the session is consumed and the credential stored against the session's user.
func (as *AuthorizationService) CompleteAuthorization(ctx context.Context, code, state string) (*AuthorizationResult, error) {
	session, err := as.repos.Sessions.Get(state)
	if err != nil {
		return nil, fmt.Errorf("[AuthorizationService.CompleteAuthorization] %w: %w", apperrors.ErrInvalidState, err)
	}

	tok, err := as.exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[AuthorizationService.CompleteAuthorization] user %q", session.UserID)
	}

	// A concurrent callback may have consumed the state while the exchange was in flight
	if err := as.repos.Sessions.Delete(state); err != nil {
		return nil, fmt.Errorf("[AuthorizationService.CompleteAuthorization] %w: %w", apperrors.ErrInvalidState, err)
	}

	credential := &token.Credential{
		UserID:        session.UserID,
		AccessToken:   tok.AccessToken,
		TokenType:     tok.TokenType,
		ExpiresIn:     tok.ExpiresIn,
		PartnerUserID: partnerUserID(tok.XUserID),
		AcquiredAt:    as.nowTime(),
	}
	if err := as.repos.Tokens.Upsert(credential); err != nil {
		return nil, apperrors.Wrapf(err, "[AuthorizationService.CompleteAuthorization] tokens.Upsert")
	}

	log.Ctx(ctx).Info().Str("user", session.UserID).Time("expires_at", credential.ExpiresAt()).Msg("access token stored")
	return &AuthorizationResult{UserID: session.UserID, Token: *tok}, nil
}

func (as *AuthorizationService) exchange(ctx context.Context, code string) (*oauthmodel.TokenResponse, error) {
	started := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, as.httpClient)

	tok, err := as.oauth.Exchange(ctx, code)
	if err != nil {
		metrics.ObserveUpstream("token_exchange", metrics.OutcomeFailure, started)
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, apperrors.NewStatusError(apperrors.ErrTokenExchangeFailed, retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTokenExchangeFailed, err)
	}
	metrics.ObserveUpstream("token_exchange", metrics.OutcomeSuccess, started)

	resp := &oauthmodel.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn),
	}
	if xUserID, ok := tok.Extra("x_user_id").(float64); ok {
		resp.XUserID = int64(xUserID)
	}
	return resp, nil
}

// generateState creates a random base64url string
func generateState() string {
	b := make([]byte, stateLength)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func partnerUserID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
