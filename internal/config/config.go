// Package config loads process configuration from the environment.
//
// Variables use the WISHAPP_ prefix; a double underscore separates nesting
// levels, so WISHAPP_SERVER__READ_TIMEOUT sets server.read_timeout. Lists are
// comma separated. A .env file in the working directory is loaded first.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/morgaesis/wishapp/internal/logging"
	"github.com/morgaesis/wishapp/store"
)

const (
	// EnvPrefix is stripped from variable names.
	EnvPrefix = "WISHAPP_"

	// LegacyEndpointVar points the store at DynamoDB Local when no endpoint
	// is configured under the prefix.
	LegacyEndpointVar = "DYNAMODB_ENDPOINT"

	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"

	RuntimeAuto   = "auto"
	RuntimeHTTP   = "http"
	RuntimeLambda = "lambda"
)

// Config is the root configuration object.
type Config struct {
	Env     string         `koanf:"env" validate:"required"`
	Backend string         `koanf:"backend" validate:"oneof=dynamodb memory"`
	Runtime string         `koanf:"runtime" validate:"oneof=auto http lambda"`
	Dynamo  DynamoConfig   `koanf:"dynamo"`
	Server  ServerConfig   `koanf:"server"`
	Logging logging.Config `koanf:"logging"`
	Routing RoutingConfig  `koanf:"routing"`
}

// DynamoConfig locates the wishlist table.
type DynamoConfig struct {
	TableName   string `koanf:"table_name" validate:"required"`
	Endpoint    string `koanf:"endpoint" validate:"omitempty,url"`
	Region      string `koanf:"region"`
	CreateTable bool   `koanf:"create_table"`
}

// ServerConfig holds settings for the standalone HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gt=0"`
	RateLimit       float64       `koanf:"rate_limit" validate:"gte=0"`
	RateBurst       int           `koanf:"rate_burst" validate:"gte=0"`
	Metrics         bool          `koanf:"metrics"`
}

// RoutingConfig controls path normalization.
type RoutingConfig struct {
	// StagePrefixes defaults to /prod. Set it empty to strip nothing.
	StagePrefixes []string `koanf:"stage_prefixes"`
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		Env:     "development",
		Backend: BackendDynamoDB,
		Runtime: RuntimeAuto,
		Dynamo: DynamoConfig{
			TableName: store.DefaultTableName,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			RateBurst:       20,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the environment, validates the result and applies defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	conf := Default()
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if k.Exists("routing.stage_prefixes") {
		conf.Routing.StagePrefixes = splitList(k.String("routing.stage_prefixes"))
	} else {
		conf.Routing.StagePrefixes = []string{"/prod"}
	}
	if conf.Dynamo.Endpoint == "" {
		conf.Dynamo.Endpoint = os.Getenv(LegacyEndpointVar)
	}
	conf.Backend = strings.ToLower(conf.Backend)
	conf.Runtime = strings.ToLower(conf.Runtime)
	conf.Logging.Level = strings.ToLower(conf.Logging.Level)
	conf.Logging.Format = strings.ToLower(conf.Logging.Format)

	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

// envKey maps WISHAPP_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// StoreConfig returns the persistence settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		TableName: c.Dynamo.TableName,
		Endpoint:  c.Dynamo.Endpoint,
		Region:    c.Dynamo.Region,
	}
}

// UseLambda reports whether the process should serve Lambda invocations.
// In auto mode that is decided by the presence of the Lambda runtime API.
func (c *Config) UseLambda() bool {
	switch c.Runtime {
	case RuntimeLambda:
		return true
	case RuntimeHTTP:
		return false
	default:
		return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
	}
}
