package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string
	LogLevel string

	FileNetNamespace     string
	MetadataNotSupported bool

	ECMBaseURL      string
	ECMUsername     string
	ECMPassword     string
	ECMDebug        bool
	ECMTimeout      time.Duration
	ECMRedactFields []string
	ECMSourceSystem string

	ECMBreakerEnabled          bool
	ECMBreakerMinRequests      int
	ECMBreakerFailureRatio     float64
	ECMBreakerOpenTimeout      time.Duration
	ECMBreakerHalfOpenMaxCalls int

	IdentityCallerKey            string
	IdentityReauthorizeAttribute string
	IdentityTechnicalUser        string

	NATSURL           string
	NATSSubjectPrefix string
	NATSQueueGroup    string

	AuditPostgresDSN string

	APIRateLimitRPS            float64
	APIRateLimitBurst          int
	APIBackpressureMaxInFlight int
	APIBackpressureWait        time.Duration

	WorkerMetricsPort string
}

// Load reads the environment. When CONFIG_FILE names a YAML file, its keys
// (the same names as the environment variables) fill in whatever the
// environment leaves unset.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIPort:  src.mustEnv("API_PORT", "8080"),
		LogLevel: src.mustEnv("LOG_LEVEL", "info"),

		FileNetNamespace:     src.mustEnv("FILENET_NAMESPACE", "pwf"),
		MetadataNotSupported: src.mustEnvBool("METADATA_NOT_SUPPORTED", true),

		ECMBaseURL:      src.mustEnv("ECM_BASE_URL", "https://restapidv.pwfdata.corp"),
		ECMUsername:     src.mustEnv("ECM_USERNAME", ""),
		ECMPassword:     src.mustEnv("ECM_PASSWORD", ""),
		ECMDebug:        src.mustEnvBool("ECM_DEBUG", false),
		ECMTimeout:      src.mustEnvDuration("ECM_TIMEOUT", 30*time.Second),
		ECMRedactFields: src.mustEnvList("ECM_REDACT_FIELDS", []string{"data", "content"}),
		ECMSourceSystem: src.mustEnv("ECM_SOURCE_SYSTEM", "PWF"),

		ECMBreakerEnabled:          src.mustEnvBool("ECM_BREAKER_ENABLED", false),
		ECMBreakerMinRequests:      src.mustEnvInt("ECM_BREAKER_MIN_REQUESTS", 10),
		ECMBreakerFailureRatio:     src.mustEnvFloat("ECM_BREAKER_FAILURE_RATIO", 0.5),
		ECMBreakerOpenTimeout:      src.mustEnvDuration("ECM_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		ECMBreakerHalfOpenMaxCalls: src.mustEnvInt("ECM_BREAKER_HALF_OPEN_MAX_CALLS", 2),

		IdentityCallerKey:            src.mustEnv("IDENTITY_CALLER_KEY", "uid"),
		IdentityReauthorizeAttribute: src.mustEnv("IDENTITY_REAUTHORIZE_ATTRIBUTE", "reauthorize"),
		IdentityTechnicalUser:        src.mustEnv("IDENTITY_TECHNICAL_USER", "pwfadmin"),

		NATSURL:           src.mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubjectPrefix: src.mustEnv("NATS_SUBJECT_PREFIX", "dms.documents"),
		NATSQueueGroup:    src.mustEnv("NATS_QUEUE_GROUP", "dms-connector"),

		AuditPostgresDSN: src.mustEnv("AUDIT_POSTGRES_DSN", ""),

		APIRateLimitRPS:            src.mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:          src.mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIBackpressureMaxInFlight: src.mustEnvInt("API_BACKPRESSURE_MAX_IN_FLIGHT", 0),
		APIBackpressureWait:        src.mustEnvDuration("API_BACKPRESSURE_WAIT", 250*time.Millisecond),

		WorkerMetricsPort: src.mustEnv("WORKER_METRICS_PORT", "9090"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIPort, validation.Required),
		validation.Field(&c.FileNetNamespace, validation.Required),
		validation.Field(&c.ECMBaseURL, validation.Required),
		validation.Field(&c.ECMSourceSystem, validation.Required),
		validation.Field(&c.IdentityCallerKey, validation.Required),
		validation.Field(&c.IdentityReauthorizeAttribute, validation.Required),
		validation.Field(&c.IdentityTechnicalUser, validation.Required),
		validation.Field(&c.ECMBreakerFailureRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.APIRateLimitRPS, validation.Min(0.0)),
		validation.Field(&c.APIRateLimitBurst, validation.Min(0)),
		validation.Field(&c.APIBackpressureMaxInFlight, validation.Min(0)),
		validation.Field(&c.NATSSubjectPrefix, validation.Required),
	)
}

type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	src := source{file: map[string]string{}}
	if strings.TrimSpace(path) == "" {
		return src, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("read config file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return src, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for key, v := range values {
		switch typed := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(typed))
			for _, item := range typed {
				parts = append(parts, fmt.Sprint(item))
			}
			src.file[key] = strings.Join(parts, ",")
		default:
			src.file[key] = fmt.Sprint(typed)
		}
	}
	return src, nil
}

func (s source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.file[key]
}

func (s source) mustEnv(key, fallback string) string {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	return v
}

func (s source) mustEnvInt(key string, fallback int) int {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s source) mustEnvFloat(key string, fallback float64) float64 {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (s source) mustEnvBool(key string, fallback bool) bool {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvDuration accepts Go durations ("750ms") and bare seconds ("30").
func (s source) mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func (s source) mustEnvList(key string, fallback []string) []string {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
