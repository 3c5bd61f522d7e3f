package token

import "time"

// Credential is the partner access token held for one user.
type Credential struct {
	UserID        string    // Local user identifier the token belongs to
	AccessToken   string    // Opaque partner access token
	TokenType     string    // Usually "bearer"
	ExpiresIn     int       // Lifetime hint in seconds, as returned by the partner
	PartnerUserID string    // Partner's own user id (x_user_id), when supplied
	AcquiredAt    time.Time // When the token exchange completed
}

// ExpiresAt is derived from the partner hint. The zero time means no hint was given.
func (c Credential) ExpiresAt() time.Time {
	if c.ExpiresIn <= 0 {
		return time.Time{}
	}
	return c.AcquiredAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}
