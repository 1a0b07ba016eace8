package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.NotEmpty(t, c.TokenFile)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd", "-a", "http://api.local:9090", "-t", "5", "-f", "/tmp/token"}

	config := &Config{}
	config.LoadDefaults()

	require.NotPanics(t, func() { parseFlags(config) })

	assert.Equal(t, "http://api.local:9090", config.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, config.RequestTimeout)
	assert.Equal(t, "/tmp/token", config.TokenFile)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	file := filepath.Join(t.TempDir(), "config.json")
	data := `{"server_endpoint_addr":"http://json.local:8081","request_timeout":"3s","token_file":"/tmp/t"}`
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	os.Args = []string{"cmd", "-c", file}

	config := &Config{}
	config.LoadDefaults()
	parseJson(config)

	assert.Equal(t, "http://json.local:8081", config.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, config.RequestTimeout)
	assert.Equal(t, "/tmp/t", config.TokenFile)
}

func TestParseJson_NoFile(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()

	require.NotPanics(t, func() { parseJson(config) })
	assert.Equal(t, "http://127.0.0.1:8080", config.ServerEndpointAddr)
}
