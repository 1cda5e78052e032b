package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/pkg/config"
)

// liveDB connects to DATABASE_URL or skips
func liveDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := Open(context.Background(), config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestOpen_NotConfigured(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{})
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{URL: "invalid://url", MaxConns: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse DATABASE_URL")
}

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.DatabaseConfig
		wantMax     int32
		wantMinZero bool
	}{
		{
			name:    "explicit sizes",
			cfg:     config.DatabaseConfig{URL: "postgres://u:p@localhost:5432/nfl", MaxConns: 5, MinConns: 1},
			wantMax: 5,
		},
		{
			name:        "min above max is ignored",
			cfg:         config.DatabaseConfig{URL: "postgres://u:p@localhost:5432/nfl", MaxConns: 2, MinConns: 4},
			wantMax:     2,
			wantMinZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := poolConfig(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMax, pc.MaxConns)
			if tt.wantMinZero {
				assert.Zero(t, pc.MinConns)
			}
			assert.Equal(t, "nflepa", pc.ConnConfig.RuntimeParams["application_name"])
		})
	}
}

func TestCheck(t *testing.T) {
	db := liveDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, err := db.Check(ctx)
	require.NoError(t, err)
	assert.True(t, h.Reachable)
	assert.Greater(t, h.Pool.Max, int32(0))
}

func TestClose_Idempotent(t *testing.T) {
	var nilDB *DB
	assert.NotPanics(t, nilDB.Close)
	assert.NotPanics(t, (&DB{}).Close)
}
