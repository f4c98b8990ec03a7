package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	SourceStatic = "static"
	SourceSQLite = "sqlite"
	SourceMongo  = "mongo"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	GRPCPort string `envconfig:"GRPC_PORT" default:"50051"` // empty disables the ops gRPC server

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	CatalogSource      string        `envconfig:"CATALOG_SOURCE"       default:"static"`
	CatalogLoadTimeout time.Duration `envconfig:"CATALOG_LOAD_TIMEOUT" default:"15s"`
	SQLitePath         string        `envconfig:"SQLITE_PATH"          default:"./data/catalog.db"`

	MongoURI        string `envconfig:"MONGO_URI"        default:"mongodb://localhost:27017"`
	MongoDBName     string `envconfig:"MONGO_DB_NAME"    default:"greenleaf"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"products"`
	MongoSeed       bool   `envconfig:"MONGO_SEED"       default:"false"` // seed an empty collection with the built-in plants

	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"15m"`

	AssetsDir       string        `envconfig:"ASSETS_DIR"       default:"./public"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"  default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the environment.
func Load(log logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("error loading .env file (continuing): %v", err)
	} else if err == nil {
		log.Info("loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceStatic, SourceSQLite, SourceMongo:
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q: must be one of static, sqlite, mongo", c.CatalogSource)
	}
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT must not be empty")
	}
	if c.CatalogSource == SourceSQLite && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when CATALOG_SOURCE=sqlite")
	}
	if c.CatalogSource == SourceMongo && c.MongoURI == "" {
		return errors.New("MONGO_URI is required when CATALOG_SOURCE=mongo")
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 || c.CatalogLoadTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}
