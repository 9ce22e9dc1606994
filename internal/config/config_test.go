package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "ap-south-1")
	t.Setenv("DDB_TABLE", "claims-table")
	t.Setenv("S3_BUCKET", "claims-docs")
	t.Setenv("PRESIGN_TTL_SECONDS", "600")
	t.Setenv("CLAIM_ID_PREFIX", "TESTIP")
	t.Setenv("DEV_BYPASS_AUTH", "true")

	e, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ap-south-1", e.Region)
	assert.Equal(t, "claims-table", e.Table)
	assert.Equal(t, "claims-docs", e.Bucket)
	assert.Equal(t, 600, e.PresignTTLSeconds)
	assert.Equal(t, "TESTIP", e.ClaimIDPrefix)
	assert.True(t, e.DevBypassAuth)
	assert.Equal(t, 10*time.Minute, e.PresignTTL())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DDB_TABLE", "claims-table")
	t.Setenv("S3_BUCKET", "claims-docs")
	t.Setenv("AWS_REGION", "")
	t.Setenv("PRESIGN_TTL_SECONDS", "")
	t.Setenv("CLAIM_ID_PREFIX", "")
	t.Setenv("DEV_BYPASS_AUTH", "")

	e, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", e.Region)
	assert.Equal(t, 300, e.PresignTTLSeconds)
	assert.Equal(t, "CSHLSIP", e.ClaimIDPrefix)
	assert.False(t, e.DevBypassAuth)
}

func TestLoadRequiresTableAndBucket(t *testing.T) {
	t.Setenv("DDB_TABLE", "")
	t.Setenv("S3_BUCKET", "claims-docs")
	_, err := Load()
	assert.ErrorContains(t, err, "DDB_TABLE")

	t.Setenv("DDB_TABLE", "claims-table")
	t.Setenv("S3_BUCKET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "S3_BUCKET")
}
