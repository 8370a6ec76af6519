package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPIURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("CATALOG_CACHE_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LOG_DEV", "1")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 90*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MinioUseSSL)
	assert.True(t, cfg.LogDev)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "many")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{JWTSecret: "k", PostgresDSN: "postgres://x", BcryptCost: 10}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.JWTSecret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")

	c = valid()
	c.PostgresDSN = ""
	assert.ErrorContains(t, c.Validate(), "POSTGRES_DSN")

	c = valid()
	c.BcryptCost = 99
	assert.ErrorContains(t, c.Validate(), "BCRYPT_COST")
}
