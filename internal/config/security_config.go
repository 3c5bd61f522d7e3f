package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	sessionMaxAgeKey   = "SESSION_MAX_AGE"
	upstreamTimeoutKey = "UPSTREAM_TIMEOUT"
)

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetSessionSweepInterval() time.Duration
	GetUpstreamTimeout() time.Duration
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

// GetMaxSessionAge is how long an authorization state stays redeemable.
func (s Security) GetMaxSessionAge() time.Duration {
	return getDuration(s.v, sessionMaxAgeKey, 15*time.Minute)
}

func (Security) GetSessionSweepInterval() time.Duration {
	return time.Minute
}

// GetUpstreamTimeout bounds every call made to the partner API.
func (s Security) GetUpstreamTimeout() time.Duration {
	return getDuration(s.v, upstreamTimeoutKey, 30*time.Second)
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if !v.IsSet(key) || v.GetString(key) == "" {
		return defaultValue
	}
	d := v.GetDuration(key)
	if d <= 0 {
		return defaultValue
	}
	return d
}
