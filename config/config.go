// Package config loads the storefront and worker settings from config.yaml,
// with environment variables taking precedence.
package config

import (
	"strings"
	"time"

	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultMaxRequestBodySize = "100KB"
	defaultMaxOrderItems      = 50
	defaultPageLimit          = 10
	defaultMaxPageLimit       = 100
	defaultReportLimit        = 10
	defaultMaxReportLimit     = 100
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Worker configures the order notification worker HTTP server
	Worker *WorkerConfig `json:"worker" yaml:"worker"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	PasswordStrength *PasswordStrengthConfig `json:"passwordStrength" yaml:"passwordStrength"`

	// Orders configures the placement and cancellation transactions
	Orders *OrdersConfig `json:"orders" yaml:"orders"`

	Pagination *PaginationConfig `json:"pagination" yaml:"pagination"`

	Reports *ReportsConfig `json:"reports" yaml:"reports"`

	// Firebase configuration for push notifications
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// QRCode configuration for order receipt QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// WorkerConfig defines the order worker server configuration
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`
	// PushAudience is the expected audience of Pub/Sub push OIDC tokens
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost         int           `json:"bcryptCost" yaml:"bcryptCost"`
	MaxActiveSessions  int           `json:"maxActiveSessions" yaml:"maxActiveSessions"`
	AccessTokenExpiry  time.Duration `json:"accessTokenExpiry" yaml:"accessTokenExpiry"`
	RefreshTokenExpiry time.Duration `json:"refreshTokenExpiry" yaml:"refreshTokenExpiry"`
	// SessionCleanupInterval is how often expired refresh tokens are purged; zero disables it
	SessionCleanupInterval time.Duration `json:"sessionCleanupInterval" yaml:"sessionCleanupInterval"`
}

// PasswordStrengthConfig defines password strength requirements
type PasswordStrengthConfig struct {
	MinLength        int  `json:"minLength" yaml:"minLength"`
	RequireUppercase bool `json:"requireUppercase" yaml:"requireUppercase"`
	RequireLowercase bool `json:"requireLowercase" yaml:"requireLowercase"`
	RequireNumbers   bool `json:"requireNumbers" yaml:"requireNumbers"`
	RequireSpecial   bool `json:"requireSpecial" yaml:"requireSpecial"`
	MaxLength        int  `json:"maxLength" yaml:"maxLength"`
}

// OrdersConfig defines order transaction limits
type OrdersConfig struct {
	// MaxItems caps the number of lines in a single order
	MaxItems int `json:"maxItems" yaml:"maxItems"`
	// IsolationLevel is "read_committed" or "serializable"
	IsolationLevel string `json:"isolationLevel" yaml:"isolationLevel"`
}

// PaginationConfig defines listing page sizes
type PaginationConfig struct {
	DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
	MaxLimit     int `json:"maxLimit" yaml:"maxLimit"`
}

// ReportsConfig defines sales report limits
type ReportsConfig struct {
	DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
	MaxLimit     int `json:"maxLimit" yaml:"maxLimit"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// FirebaseConfig defines Firebase configuration for push notifications
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP, "google" for Google Pub/Sub or
	// "gocloud" for any Go CDK topic URL
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// TopicURL such as mem://order-events (for gocloud provider)
	TopicURL string `json:"topicUrl" yaml:"topicUrl"`
}

// New reads config.yaml from the working directory or one of its config
// folders. Replicas come only from POSTGRES_REPLICAS_{n}_* variables.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills the sections a minimal config.yaml may omit.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Orders == nil {
		cfg.Orders = &OrdersConfig{}
	}
	if cfg.Orders.MaxItems <= 0 {
		cfg.Orders.MaxItems = defaultMaxOrderItems
	}
	if cfg.Orders.IsolationLevel == "" {
		cfg.Orders.IsolationLevel = IsolationReadCommitted
	}

	if cfg.Pagination == nil {
		cfg.Pagination = &PaginationConfig{}
	}
	if cfg.Pagination.DefaultLimit <= 0 {
		cfg.Pagination.DefaultLimit = defaultPageLimit
	}
	if cfg.Pagination.MaxLimit <= 0 {
		cfg.Pagination.MaxLimit = defaultMaxPageLimit
	}

	if cfg.Reports == nil {
		cfg.Reports = &ReportsConfig{}
	}
	if cfg.Reports.DefaultLimit <= 0 {
		cfg.Reports.DefaultLimit = defaultReportLimit
	}
	if cfg.Reports.MaxLimit <= 0 {
		cfg.Reports.MaxLimit = defaultMaxReportLimit
	}

	if cfg.Worker == nil {
		cfg.Worker = &WorkerConfig{}
	}
}

// Isolation levels accepted by orders.isolationLevel.
const (
	IsolationReadCommitted = "read_committed"
	IsolationSerializable  = "serializable"
)
