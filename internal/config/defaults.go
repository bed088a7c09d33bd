package config

const (
	DefaultHubSpotBaseURL = "https://api.hubapi.com"

	DefaultHTTPHost = "127.0.0.1"
	DefaultHTTPPort = 8400

	DefaultLogLevel = "info"

	DefaultRateLimitPerMinute = 60

	// Each outbound HTTP call is attempted exactly once within this bound.
	DefaultRequestTimeoutSec = 30

	// Brokered tokens are reused for this long before a fresh exchange.
	DefaultTokenTTLMin = 30

	// Bounds applied when a tool invocation leaves limit unset.
	DefaultSearchLimit = 100
	DefaultRecentLimit = 10
	DefaultDomainLimit = 10

	// Page size used by the transparent pagination loops.
	DefaultPageSize = 100
)
