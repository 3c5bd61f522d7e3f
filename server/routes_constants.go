package server

// Route path constants
const (
	RouteIndex = "/{$}"

	// Partner authorization
	RouteAuthPolar         = "/auth/polar"
	RouteAuthPolarCallback = "/auth/polar/callback"

	// Data
	RouteHealthData = "/health-data/{userId}"

	// Operations
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

const (
	defaultUserID   = "test-user"
	contentTypeJSON = "application/json; charset=utf-8"
)
