package oauthmodel

// TokenResponse is the partner token endpoint payload for the authorization_code grant.
type TokenResponse struct {
	// AccessToken is the opaque partner access token.
	// Usage: Authorization: <token_type> <access_token>
	AccessToken string `json:"access_token"`

	// TokenType is normally "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds. The partner issues long-lived tokens
	// and no refresh token, so this is a hint only.
	ExpiresIn int `json:"expires_in"`

	// XUserID is the partner's own numeric user id.
	XUserID int64 `json:"x_user_id,omitempty"`
}
