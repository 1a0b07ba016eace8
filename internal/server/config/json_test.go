package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJSON_LoadsAllFields(t *testing.T) {
	path := writeTempConfig(t, `{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://localhost/tasks",
		"secret_key": "json-secret",
		"access_token_validity_duration": "45m",
		"s3_root_user": "ju",
		"s3_root_password": "jp",
		"s3_bucket": "jb",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/"
	}`)

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	parseJSON(config)

	assert.Equal(t, ":7070", config.EndpointAddr)
	assert.Equal(t, "postgres://localhost/tasks", config.DatabaseDSN)
	assert.Equal(t, "json-secret", config.SecretKey)
	assert.Equal(t, 45*time.Minute, config.AccessTokenValidityDuration)
	assert.Equal(t, "ju", config.S3RootUser)
	assert.Equal(t, "jp", config.S3RootPassword)
	assert.Equal(t, "jb", config.S3Bucket)
	assert.Equal(t, "eu-west-1", config.S3Region)
	assert.Equal(t, "http://minio:9000/", config.S3BaseEndpoint)
}

func TestParseJSON_NoFlagNoOverlay(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	parseJSON(config)

	assert.Equal(t, ":8080", config.EndpointAddr)
}

func TestParseJSON_InvalidFilePanics(t *testing.T) {
	path := writeTempConfig(t, `{not json`)

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	require.Panics(t, func() { parseJSON(config) })
}
