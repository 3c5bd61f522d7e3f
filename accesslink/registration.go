package accesslink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
	"github.com/rs/zerolog/log"
)

type RegistrationStatus string

const (
	Registered        RegistrationStatus = "registered"
	AlreadyRegistered RegistrationStatus = "already_registered"
)

// RegistrationOutcome describes a successful registration call. User is only set for new registrations.
type RegistrationOutcome struct {
	Status RegistrationStatus
	User   *oauthmodel.RegisteredUser
}

// RegisterUser registers userID with the partner using the user's stored credential.
// A 409 Conflict means the partner already knows the user and is not an error.
func (c *Client) RegisterUser(ctx context.Context, userID string) (*RegistrationOutcome, error) {
	client, err := c.userClient(userID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink RegisterUser]")
	}

	payload, err := json.Marshal(oauthmodel.RegisterUserRequest{MemberID: userID})
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink RegisterUser] marshal")
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink RegisterUser] new request")
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := do(ctx, client, "register_user", req)
	if err != nil {
		return nil, fmt.Errorf("[accesslink RegisterUser] %w: %w", apperrors.ErrRegistrationFailed, err)
	}

	switch {
	case status == http.StatusConflict:
		log.Ctx(ctx).Info().Str("user", userID).Msg("user already registered")
		return &RegistrationOutcome{Status: AlreadyRegistered}, nil
	case !isSuccess(status):
		return nil, apperrors.Wrapf(apperrors.NewStatusError(apperrors.ErrRegistrationFailed, status, string(body)), "[accesslink RegisterUser]")
	}

	outcome := &RegistrationOutcome{Status: Registered}
	var user oauthmodel.RegisteredUser
	if err := json.Unmarshal(body, &user); err == nil {
		outcome.User = &user
	}
	log.Ctx(ctx).Info().Str("user", userID).Msg("user registered")
	return outcome, nil
}
