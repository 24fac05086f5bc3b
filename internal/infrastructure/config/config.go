package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision/internal/domain/service"
)

// Model backends.
const (
	BackendArtifact = "artifact"
	BackendStub     = "stub"
)

// Score cache kinds.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the decision service.
type Config struct {
	Thresholds   service.HybridThresholds
	GRPCPort     string
	HTTPPort     string
	Environment  string
	LogLevel     string
	LogFormat    string
	ServiceName  string
	Policy       string
	ModelPath    string
	ModelBackend string
	OTLPEndpoint string
	Cache        CacheConfig
	Auth         AuthConfig
	TLS          TLSConfig

	StubProbability float64
	GRPCReflection  bool

	// modelPathSet records whether MODEL_PATH was given explicitly.
	modelPathSet bool
}

// CacheConfig selects the score cache.
type CacheConfig struct {
	Kind      string
	RedisAddr string
	TTL       time.Duration
}

// AuthConfig enables bearer-token authentication when Secret is set.
type AuthConfig struct {
	Secret string
	Issuer string
}

// Enabled reports whether tokens are required.
func (a AuthConfig) Enabled() bool { return a.Secret != "" }

// TLSConfig enables TLS on the gRPC listener when both files are set.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether TLS is configured.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

// DefaultModelPath returns the bundled artifact trained for policy.
func DefaultModelPath(policy string) string {
	if policy == service.PolicySimple {
		return "models/simple_model.json"
	}
	return "models/hybrid_model.json"
}

// SetPolicy switches the decision policy. Unless MODEL_PATH was set, the
// model path follows the policy.
func (c *Config) SetPolicy(policy string) {
	c.Policy = strings.ToLower(policy)
	if !c.modelPathSet {
		c.ModelPath = DefaultModelPath(c.Policy)
	}
}

// SetModelPath pins the model artifact regardless of policy.
func (c *Config) SetModelPath(path string) {
	c.ModelPath = path
	c.modelPathSet = true
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
// Malformed values are reported rather than replaced by defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort:     getEnv("GRPC_PORT", "8090"),
		HTTPPort:     getEnv("HTTP_PORT", "9090"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ServiceName:  getEnv("SERVICE_NAME", "loan-decision"),
		Policy:       strings.ToLower(getEnv("DECISION_POLICY", service.PolicyHybrid)),
		ModelBackend: strings.ToLower(getEnv("MODEL_BACKEND", BackendArtifact)),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Cache: CacheConfig{
			Kind:      strings.ToLower(getEnv("SCORE_CACHE", CacheNone)),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Auth: AuthConfig{
			Secret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer: getEnv("AUTH_JWT_ISSUER", "bib-loan-decision"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		},
	}

	if path := getEnv("MODEL_PATH", ""); path != "" {
		cfg.SetModelPath(path)
	} else {
		cfg.ModelPath = DefaultModelPath(cfg.Policy)
	}

	var err error
	defaults := service.DefaultHybridThresholds()
	if cfg.Thresholds.MaxDebtIncomeRatio, err = getDecimal("MAX_DEBT_INCOME_RATIO", defaults.MaxDebtIncomeRatio); err != nil {
		return nil, err
	}
	if cfg.Thresholds.MinTotalIncome, err = getDecimal("MIN_TOTAL_INCOME", defaults.MinTotalIncome); err != nil {
		return nil, err
	}
	if cfg.Thresholds.ApproveAt, err = getFloat("APPROVE_THRESHOLD", defaults.ApproveAt); err != nil {
		return nil, err
	}
	if cfg.Thresholds.RejectBelow, err = getFloat("REJECT_THRESHOLD", defaults.RejectBelow); err != nil {
		return nil, err
	}
	if cfg.StubProbability, err = getFloat("STUB_PROBABILITY", 0.5); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = getDuration("SCORE_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.GRPCReflection, err = getBool("GRPC_REFLECTION", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Policy {
	case service.PolicyHybrid, service.PolicySimple:
	default:
		return fmt.Errorf("DECISION_POLICY: unknown policy %q", c.Policy)
	}
	switch c.ModelBackend {
	case BackendArtifact, BackendStub:
	default:
		return fmt.Errorf("MODEL_BACKEND: unknown backend %q", c.ModelBackend)
	}
	switch c.Cache.Kind {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("SCORE_CACHE: unknown cache %q", c.Cache.Kind)
	}
	if c.StubProbability < 0 || c.StubProbability > 1 {
		return fmt.Errorf("STUB_PROBABILITY: %g is outside [0,1]", c.StubProbability)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
