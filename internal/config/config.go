package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"domainctl/pkg/domain"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// the domain engines and their adapters, and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigin is the CORS origin of the dashboard; any origin when empty
		AllowedOrigin string `env:"HTTP_ALLOWED_ORIGIN" yaml:"allowedOrigin"`
		// RiverUI mounts the job queue dashboard at /riverui/
		RiverUI bool `env:"HTTP_RIVER_UI" env-default:"false" yaml:"riverUI"`
	} `yaml:"http"`

	// JWT holds the RS256 key pair used for tenant bearer tokens
	JWT struct {
		// PublicKey verifies tokens presented to the API (PEM)
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey signs tokens minted by the jwt command (PEM)
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"domainctl" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Worker configures the job queue and the periodic sweeps
	Worker struct {
		// MaxWorkers bounds concurrently running jobs per process
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"100" yaml:"maxWorkers"`
		// BatchSize bounds how many domains one sweep query returns
		BatchSize uint `env:"WORKER_BATCH_SIZE" env-default:"100" yaml:"batchSize"`
		// JobTimeout bounds a single per-domain job
		JobTimeout time.Duration `env:"WORKER_JOB_TIMEOUT" env-default:"1m" yaml:"jobTimeout"`
		// SweepTimeout bounds a single sweep
		SweepTimeout time.Duration `env:"WORKER_SWEEP_TIMEOUT" env-default:"5m" yaml:"sweepTimeout"`

		// Schedules are cron expressions; descriptors like "@every 1m" work too
		Schedules struct {
			ReapReservations    string `env:"WORKER_SCHEDULE_REAP_RESERVATIONS" env-default:"@every 1m" yaml:"reapReservations"`
			VerificationSweep   string `env:"WORKER_SCHEDULE_VERIFICATION_SWEEP" env-default:"@every 1m" yaml:"verificationSweep"`
			ReconfirmationSweep string `env:"WORKER_SCHEDULE_RECONFIRMATION_SWEEP" env-default:"0 3 * * *" yaml:"reconfirmationSweep"` //nolint: lll
			CertificateSweep    string `env:"WORKER_SCHEDULE_CERTIFICATE_SWEEP" env-default:"@every 1m" yaml:"certificateSweep"`
		} `yaml:"schedules"`
	} `yaml:"worker"`

	// Verification configures how tenants prove control of a hostname
	Verification struct {
		// CNAMEBase is the platform zone CNAME targets are generated under, e.g. cname.shortlinks.net
		CNAMEBase string `env:"VERIFICATION_CNAME_BASE" env-default:"cname.shortlinks.net" yaml:"cnameBase"`
	} `yaml:"verification"`

	// Policy holds the lifecycle timings
	Policy Policy `yaml:"policy"`

	// DNS configures the resolver used for verification
	DNS struct {
		// Nameservers are queried in order; /etc/resolv.conf is used when empty
		Nameservers []string `env:"DNS_NAMESERVERS" env-separator:"," yaml:"nameservers"`
		// Timeout bounds a single query
		Timeout time.Duration `env:"DNS_TIMEOUT" env-default:"5s" yaml:"timeout"`
	} `yaml:"dns"`

	// Provider configures the primary certificate provider, a custom-hostname SaaS API
	Provider struct {
		// Enabled adds the provider to the chain
		Enabled bool `env:"PROVIDER_ENABLED" env-default:"true" yaml:"enabled"`
		// BaseURL of the API; the client's default when empty
		BaseURL string `env:"PROVIDER_BASE_URL" yaml:"baseUrl"`
		// ZoneID is the zone the custom hostnames are attached to
		ZoneID string `env:"PROVIDER_ZONE_ID" yaml:"zoneId"`
		// Token is the API bearer token
		Token string `env:"PROVIDER_TOKEN" yaml:"token"`
		// Timeout bounds a single API request
		Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"15s" yaml:"timeout"`
	} `yaml:"provider"`

	// ACME configures the fallback certificate provider
	ACME struct {
		// Enabled adds the provider to the chain after the primary one
		Enabled bool `env:"ACME_ENABLED" env-default:"true" yaml:"enabled"`
		// Email is the ACME account contact
		Email string `env:"ACME_EMAIL" yaml:"email"`
		// CADirURL is the directory of the CA; Let's Encrypt production when empty
		CADirURL string `env:"ACME_CA_DIR_URL" yaml:"caDirUrl"`
		// HTTP01Address is where the HTTP-01 challenge server listens
		HTTP01Address string `env:"ACME_HTTP01_ADDRESS" env-default:":80" yaml:"http01Address"`
		// ProxyHeader is used for host matching behind a proxy
		ProxyHeader string `env:"ACME_PROXY_HEADER" yaml:"proxyHeader"`
		// MaxConcurrent bounds simultaneous issuances
		MaxConcurrent int `env:"ACME_MAX_CONCURRENT" env-default:"4" yaml:"maxConcurrent"`
	} `yaml:"acme"`

	// Certstore configures where ACME certificates are written for the TLS edge
	Certstore struct {
		// Backend is s3 or dir
		Backend string `env:"CERTSTORE_BACKEND" env-default:"dir" yaml:"backend"`
		// Dir is the root directory of the dir backend
		Dir string `env:"CERTSTORE_DIR" env-default:"/var/lib/domainctl/certs" yaml:"dir"`

		S3 struct {
			Bucket         string `env:"CERTSTORE_S3_BUCKET" yaml:"bucket"`
			Region         string `env:"CERTSTORE_S3_REGION" yaml:"region"`
			Prefix         string `env:"CERTSTORE_S3_PREFIX" env-default:"certs" yaml:"prefix"`
			Endpoint       string `env:"CERTSTORE_S3_ENDPOINT" yaml:"endpoint"`
			AccessKeyID    string `env:"CERTSTORE_S3_ACCESS_KEY_ID" yaml:"accessKeyId"`
			SecretKey      string `env:"CERTSTORE_S3_SECRET_KEY" yaml:"secretKey"`
			ForcePathStyle bool   `env:"CERTSTORE_S3_FORCE_PATH_STYLE" yaml:"forcePathStyle"`
		} `yaml:"s3"`
	} `yaml:"certstore"`

	// Notification configures tenant notifications; events are always written to the log
	Notification struct {
		Postmark struct {
			// Enabled sends an email per event
			Enabled      bool   `env:"POSTMARK_ENABLED" yaml:"enabled"`
			ServerToken  string `env:"POSTMARK_SERVER_TOKEN" yaml:"serverToken"`
			AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN" yaml:"accountToken"`
			From         string `env:"POSTMARK_FROM" yaml:"from"`
			To           string `env:"POSTMARK_TO" yaml:"to"`
		} `yaml:"postmark"`
	} `yaml:"notification"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Policy mirrors domain.Policy with config tags.
type Policy struct {
	ReservationTTL          time.Duration `env:"POLICY_RESERVATION_TTL" env-default:"15m" yaml:"reservationTtl"`
	MaxVerificationAttempts int           `env:"POLICY_MAX_VERIFICATION_ATTEMPTS" env-default:"5" yaml:"maxVerificationAttempts"`
	BackoffBase             time.Duration `env:"POLICY_BACKOFF_BASE" env-default:"1m" yaml:"backoffBase"`
	CeilingRetryInterval    time.Duration `env:"POLICY_CEILING_RETRY_INTERVAL" env-default:"1h" yaml:"ceilingRetryInterval"`
	ReconfirmationInterval  time.Duration `env:"POLICY_RECONFIRMATION_INTERVAL" env-default:"8760h" yaml:"reconfirmationInterval"`
	CertificateValidity     time.Duration `env:"POLICY_CERTIFICATE_VALIDITY" env-default:"2160h" yaml:"certificateValidity"`
	RenewalWindow           time.Duration `env:"POLICY_RENEWAL_WINDOW" env-default:"720h" yaml:"renewalWindow"`
	RenewalRetryInterval    time.Duration `env:"POLICY_RENEWAL_RETRY_INTERVAL" env-default:"6h" yaml:"renewalRetryInterval"`
	PollInterval            time.Duration `env:"POLICY_POLL_INTERVAL" env-default:"10s" yaml:"pollInterval"`
	MaxPolls                int           `env:"POLICY_MAX_POLLS" env-default:"12" yaml:"maxPolls"`
	PendingRecheckInterval  time.Duration `env:"POLICY_PENDING_RECHECK_INTERVAL" env-default:"15m" yaml:"pendingRecheckInterval"`
}

// Domain converts the configured timings, falling back to the defaults for
// anything left zero.
func (p Policy) Domain() domain.Policy {
	out := domain.DefaultPolicy()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}

	set(&out.ReservationTTL, p.ReservationTTL)
	set(&out.BackoffBase, p.BackoffBase)
	set(&out.CeilingRetryInterval, p.CeilingRetryInterval)
	set(&out.ReconfirmationInterval, p.ReconfirmationInterval)
	set(&out.CertificateValidity, p.CertificateValidity)
	set(&out.RenewalWindow, p.RenewalWindow)
	set(&out.RenewalRetryInterval, p.RenewalRetryInterval)
	set(&out.PollInterval, p.PollInterval)
	set(&out.PendingRecheckInterval, p.PendingRecheckInterval)
	if p.MaxVerificationAttempts > 0 {
		out.MaxVerificationAttempts = p.MaxVerificationAttempts
	}
	if p.MaxPolls > 0 {
		out.MaxPolls = p.MaxPolls
	}

	return out
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv fills a Config from the environment and the defaults only.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}
