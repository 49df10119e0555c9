package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("AWS_REGION", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "japp", cfg.DBName)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("S3_BUCKET", "meal-photos")
	t.Setenv("EXTRACTION_API_URL", "http://extractor:8000")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "meal-photos", cfg.S3Bucket)
	assert.Equal(t, "http://extractor:8000", cfg.ExtractionURL)
}
