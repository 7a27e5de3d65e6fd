package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port      string        `env:"PORT,       default=3000"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=1h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	APIPrefix string        `env:"API_PREFIX, default=/api"`

	// StoreDriver selects the persistence adapter: mongo or postgres.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Storage  StorageConfig
	Notify   NotifyConfig
	Argon2   Argon2Config
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=postboard"`
}

type PostgresConfig struct {
	DSN          string `env:"POSTGRES_DSN"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS, default=10"`
}

// RedisConfig enables the Redis notification sink when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,      default=0"`
	Channel  string `env:"REDIS_CHANNEL, default=postboard:notifications"`
}

// NATSConfig enables the NATS notification sink when URL is set.
type NATSConfig struct {
	URL     string `env:"NATS_URL"`
	Subject string `env:"NATS_SUBJECT, default=postboard.notifications"`
}

// StorageConfig enables profile picture uploads when Bucket is set.
type StorageConfig struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION,         default=us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE, default=false"`
	CreateBucket    bool   `env:"S3_CREATE_BUCKET,  default=false"`
	MaxUploadBytes  int64  `env:"S3_MAX_UPLOAD_BYTES, default=5242880"`
}

// NotifyConfig sizes the notification dispatcher. Events are sharded by the
// id they concern, so extra workers help only with many distinct subjects.
type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS,      default=4"`
	Buffer      int           `env:"NOTIFY_BUFFER,       default=256"`
	SinkTimeout time.Duration `env:"NOTIFY_SINK_TIMEOUT, default=5s"`
}

type Argon2Config struct {
	Memory      uint32 `env:"ARGON2_MEMORY_KIB,  default=19456"`
	Iterations  uint32 `env:"ARGON2_ITERATIONS,  default=2"`
	Parallelism uint8  `env:"ARGON2_PARALLELISM, default=1"`
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StoreDriver))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Argon2.Memory == 0 || c.Argon2.Iterations == 0 || c.Argon2.Parallelism == 0 {
		errs = append(errs, errors.New("argon2 parameters must be positive"))
	}
	return errors.Join(errs...)
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
