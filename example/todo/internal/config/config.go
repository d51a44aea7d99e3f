package config

const (
	// Platform configuration. Override with CITADEL_URL / CITADEL_API_KEY.
	DefaultBaseURL = "http://localhost:54321"
	DefaultAPIKey  = "local-dev-api-key"

	// Server configuration
	MetricsPort = ":2112"

	// OpenTelemetry configuration
	OTLPEndpoint   = "localhost:4317"
	ServiceName    = "citadel-todo-example"
	ServiceVersion = "0.1.0"

	// Operation intervals
	OperationInterval = 5 // seconds
)
