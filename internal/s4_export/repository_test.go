package s4_export

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/internal/contracts"
)

func TestRepository_SaveAndLatest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "database connection failed")
	defer db.Close()

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	const season = 1901 // never a real season
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), "DELETE FROM export_snapshots WHERE season = $1", season)
	})

	first := &contracts.Snapshot{
		RunID:       uuid.NewString(),
		Season:      season,
		TeamCount:   1,
		ProfileHash: "abc",
		Payload:     []byte(`{"KC": {"off_plays": 1}}`),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Save(ctx, first))

	second := *first
	second.RunID = uuid.NewString()
	second.TeamCount = 2
	require.NoError(t, repo.Save(ctx, &second))

	got, err := repo.Latest(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, got.RunID)
	assert.Equal(t, 2, got.TeamCount)
	assert.JSONEq(t, string(first.Payload), string(got.Payload))

	_, err = repo.Latest(ctx, season+1)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRepository_SaveRejectsBadRunID(t *testing.T) {
	repo := NewRepository(nil)
	err := repo.Save(context.Background(), &contracts.Snapshot{RunID: "not-a-uuid"})
	assert.Error(t, err)
}
