package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/rs/zerolog"
)

type callbackResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	NextStep string `json:"nextStep"`
}

type unauthenticatedResponse struct {
	Error   string `json:"error"`
	AuthURL string `json:"authUrl"`
}

// StartAuthorizationHandler redirects the browser to the partner consent page. The user
// defaults to test-user when no user query parameter is given.
func (s *Server) StartAuthorizationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = defaultUserID
		}

		redirect, err := s.services.Auth.StartAuthorization(userID)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("user", userID).Msg("failed to start authorization")
			writeJSONError(w, clientErrorMessage(err), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// AuthorizationCallbackHandler completes the flow and registers the user with the partner.
func (s *Server) AuthorizationCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		q := r.URL.Query()

		if partnerErr := q.Get("error"); partnerErr != "" {
			logger.Warn().Str("partner_error", partnerErr).Msg("authorization denied")
			writeJSONError(w, "Authorization failed: "+partnerErr, http.StatusBadRequest)
			return
		}
		code, state := q.Get("code"), q.Get("state")
		if code == "" || state == "" {
			writeJSONError(w, "Missing authorization code or state", http.StatusBadRequest)
			return
		}

		result, err := s.services.Auth.CompleteAuthorization(r.Context(), code, state)
		if err != nil {
			logger.Error().Err(err).Msg("authorization callback failed")
			status := http.StatusInternalServerError
			if errors.Is(err, apperrors.ErrInvalidState) {
				status = http.StatusBadRequest
			}
			writeJSONError(w, clientErrorMessage(err), status)
			return
		}

		if _, err := s.services.Registrar.RegisterUser(r.Context(), result.UserID); err != nil {
			logger.Error().Err(err).Str("user", result.UserID).Msg("partner registration failed")
			writeJSONError(w, clientErrorMessage(err), http.StatusInternalServerError)
			return
		}

		writeJSON(w, callbackResponse{
			Success:  true,
			Message:  "Polar account connected successfully!",
			UserID:   result.UserID,
			NextStep: "/health-data/" + url.PathEscape(result.UserID),
		}, http.StatusOK)
	}
}

// HealthDataHandler returns the user's snapshot, or 401 with a link to start authorization.
func (s *Server) HealthDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userId")

		if _, err := s.services.Tokens.Get(userID); err != nil {
			writeUnauthenticated(w, userID)
			return
		}

		snapshot, err := s.services.Snapshots.BuildSnapshot(r.Context(), userID)
		if err != nil {
			// The credential can disappear between the check and the fetch
			if errors.Is(err, apperrors.ErrNoCredential) {
				writeUnauthenticated(w, userID)
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Str("user", userID).Msg("failed to build snapshot")
			writeJSONError(w, clientErrorMessage(err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, snapshot, http.StatusOK)
	}
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

// PreflightHandler answers OPTIONS requests that CorsMiddleware let through, which only
// happens without an Origin header.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

var clientErrorMessages = []struct {
	category error
	message  string
}{
	{apperrors.ErrInvalidState, "Invalid state parameter"},
	{apperrors.ErrTokenExchangeFailed, "Token exchange failed"},
	{apperrors.ErrRegistrationFailed, "User registration failed"},
	{apperrors.ErrTransactionListFailed, "Transaction listing failed"},
	{apperrors.ErrNoCredential, "No access token found for user"},
}

// clientErrorMessage maps err to the message returned in JSON bodies. The full chain only goes
// to the log. Partner statuses are kept, partner bodies are not.
func clientErrorMessage(err error) string {
	for _, m := range clientErrorMessages {
		if !errors.Is(err, m.category) {
			continue
		}
		var statusErr *apperrors.StatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("%s: %d", m.message, statusErr.StatusCode)
		}
		return m.message
	}
	return "Internal server error"
}

func writeUnauthenticated(w http.ResponseWriter, userID string) {
	writeJSON(w, unauthenticatedResponse{
		Error:   "User not authenticated",
		AuthURL: RouteAuthPolar + "?" + url.Values{"user": {userID}}.Encode(),
	}, http.StatusUnauthorized)
}

func writeJSON(w http.ResponseWriter, body any, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}
