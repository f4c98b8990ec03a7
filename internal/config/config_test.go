package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	log, _ := test.NewNullLogger()

	cfg, err := Load(log)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, SourceStatic, cfg.CatalogSource)
	assert.Equal(t, "greenleaf", cfg.MongoDBName)
	assert.Equal(t, "products", cfg.MongoCollection)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GRPC_PORT", "")
	t.Setenv("CATALOG_SOURCE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("MONGO_SEED", "true")
	log, _ := test.NewNullLogger()

	cfg, err := Load(log)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Empty(t, cfg.GRPCPort)
	assert.Equal(t, SourceSQLite, cfg.CatalogSource)
	assert.Equal(t, "/tmp/catalog.db", cfg.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.CatalogCacheTTL)
	assert.True(t, cfg.MongoSeed)
}

func TestLoad_InvalidSource(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "postgres")
	log, _ := test.NewNullLogger()

	_, err := Load(log)
	assert.ErrorContains(t, err, "CATALOG_SOURCE")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	log, _ := test.NewNullLogger()

	_, err := Load(log)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTPPort:           "8080",
		CatalogSource:      SourceStatic,
		CatalogLoadTimeout: time.Second,
		RequestTimeout:     time.Second,
		ShutdownTimeout:    time.Second,
	}
	require.NoError(t, valid.Validate())

	noPort := valid
	noPort.HTTPPort = ""
	assert.Error(t, noPort.Validate())

	noPath := valid
	noPath.CatalogSource = SourceSQLite
	assert.Error(t, noPath.Validate())

	noURI := valid
	noURI.CatalogSource = SourceMongo
	assert.Error(t, noURI.Validate())

	zeroTimeout := valid
	zeroTimeout.RequestTimeout = 0
	assert.Error(t, zeroTimeout.Validate())
}
