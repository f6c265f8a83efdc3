package constants

// Deployment environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal   = "local"
	PubSubProviderGoogle  = "google"
	PubSubProviderGoCloud = "gocloud"
)

// Order event types published after a committed order transition.
const (
	OrderEventPlaced        = "order.placed"
	OrderEventCancelled     = "order.cancelled"
	OrderEventStatusChanged = "order.status_changed"
)

// Pagination defaults used when the configuration omits them.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)
