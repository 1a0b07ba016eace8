package repomanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryManager_UnsupportedScheme(t *testing.T) {
	_, err := NewRepositoryManager(context.Background(), "mysql://localhost/tasks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database dsn")
}

func TestDatabaseNameFromDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"mongodb://localhost:27017/gophtasks", "gophtasks"},
		{"mongodb://localhost:27017/custom?authSource=admin", "custom"},
		{"mongodb://localhost:27017", "gophtasks"},
		{"mongodb://localhost:27017/", "gophtasks"},
		{"mongodb+srv://cluster.example.com/tasks", "tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, databaseNameFromDSN(tt.dsn))
		})
	}
}
