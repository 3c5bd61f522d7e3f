package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	portEnvVar          = "PORT"
	appNameVar          = "APP_NAME"
	envVar              = "ENV"
	publicBaseURLEnvVar = "PUBLIC_BASE_URL"

	EnvDev = "DEV"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

// GetPort returns the bare listening port, e.g. "3000".
func (e EnvVars) GetPort() string {
	return strings.TrimPrefix(getString(e.v, portEnvVar, "3000"), ":")
}

// GetAddr returns the listen address for http.Server, e.g. ":3000".
func (e EnvVars) GetAddr() string {
	return fmt.Sprintf(":%s", e.GetPort())
}

func (e EnvVars) GetAppName() string {
	return getString(e.v, appNameVar, "Polar Health Link")
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(getString(e.v, envVar, EnvDev))
}

// GetPublicBaseURL is the externally visible base URL of a deployed instance.
func (e EnvVars) GetPublicBaseURL() string {
	return strings.TrimRight(getString(e.v, publicBaseURLEnvVar, ""), "/")
}

func getString(v *viper.Viper, key, defaultValue string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return defaultValue
	}
	return value
}
