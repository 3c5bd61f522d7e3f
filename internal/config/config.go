package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	CorsConfig
	PolarConfig
	SecurityConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAddr() string
	GetAppName() string
	GetEnv() string
	GetPublicBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Polar
	Security
}

// New builds a Config over v. Every key can be supplied as an environment variable of the same name.
func New(v *viper.Viper) Config {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return mainConfig{
		EnvVars:  EnvVars{v: v},
		Cors:     Cors{v: v},
		Polar:    Polar{v: v, env: EnvVars{v: v}},
		Security: Security{v: v},
	}
}

// Load reads an optional config file before building the Config.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("[config Load] read %s: %w", configFile, err)
		}
	}
	c := New(v)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c mainConfig) Validate() error {
	var errs []error
	if c.GetClientID() == "" {
		errs = append(errs, fmt.Errorf("%s is required", clientIDKey))
	}
	if c.GetClientSecret() == "" {
		errs = append(errs, fmt.Errorf("%s is required", clientSecretKey))
	}
	if c.GetRedirectURI() == "" {
		errs = append(errs, fmt.Errorf("%s is required outside DEV", redirectURIKey))
	}
	if len(errs) > 0 {
		return fmt.Errorf("[config Validate] %w", errors.Join(errs...))
	}
	return nil
}
