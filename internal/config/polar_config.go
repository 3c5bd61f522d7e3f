package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	clientIDKey      = "POLAR_CLIENT_ID"
	clientSecretKey  = "POLAR_CLIENT_SECRET"
	redirectURIKey   = "POLAR_REDIRECT_URI"
	authBaseURLKey   = "POLAR_AUTH_BASE_URL"
	accessLinkURLKey = "POLAR_ACCESSLINK_URL"
	scopeKey         = "POLAR_SCOPE"

	callbackPath = "/auth/polar/callback"
)

// PolarConfig holds the partner OAuth client registration and API locations.
type PolarConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthBaseURL() string
	GetAccessLinkURL() string
	GetScopes() []string
}

type Polar struct {
	v   *viper.Viper
	env EnvVars
}

var _ PolarConfig = Polar{}

func (p Polar) GetClientID() string {
	return getString(p.v, clientIDKey, "")
}

func (p Polar) GetClientSecret() string {
	return getString(p.v, clientSecretKey, "")
}

// GetRedirectURI falls back to localhost in DEV and to PUBLIC_BASE_URL elsewhere.
func (p Polar) GetRedirectURI() string {
	if uri := getString(p.v, redirectURIKey, ""); uri != "" {
		return uri
	}
	if p.env.GetEnv() == EnvDev {
		return "http://localhost:" + p.env.GetPort() + callbackPath
	}
	if base := p.env.GetPublicBaseURL(); base != "" {
		return base + callbackPath
	}
	return ""
}

func (p Polar) GetAuthBaseURL() string {
	return strings.TrimRight(getString(p.v, authBaseURLKey, "https://polarremote.com/v2"), "/")
}

func (p Polar) GetAccessLinkURL() string {
	return strings.TrimRight(getString(p.v, accessLinkURLKey, "https://www.polaraccesslink.com/v3"), "/")
}

func (p Polar) GetScopes() []string {
	return strings.Fields(getString(p.v, scopeKey, "accesslink.read_all"))
}
