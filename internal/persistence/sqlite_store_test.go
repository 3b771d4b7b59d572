package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/subtitle-burner/internal/merge"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveReportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	run := BatchRun{
		RootDir:      "/movies",
		LangTag:      "zh-Hans",
		QualityTier:  "high",
		SuccessCount: 1,
		TotalCount:   2,
		StartedAt:    started,
		FinishedAt:   time.Now(),
	}
	results := []merge.Result{
		{
			Success:       true,
			VideoName:     "a.mp4",
			SubtitleLang:  "zh-Hans",
			OutputPath:    "/movies/merged_videos/a_with_subtitles.mp4",
			FileSizeBytes: 1024,
		},
		{
			VideoName:    "b.mp4",
			SubtitleLang: "zh-Hans",
			Err:          merge.NewError(merge.ErrNotFound, "no zh-Hans subtitle found"),
		},
	}

	batchID, err := store.SaveReport(ctx, run, results)
	require.NoError(t, err)
	assert.Greater(t, batchID, int64(0))

	runs, err := store.LoadRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, batchID, runs[0].ID)
	assert.Equal(t, "/movies", runs[0].RootDir)
	assert.Equal(t, "zh-Hans", runs[0].LangTag)
	assert.Equal(t, "high", runs[0].QualityTier)
	assert.Equal(t, 1, runs[0].SuccessCount)
	assert.Equal(t, 2, runs[0].TotalCount)
	assert.False(t, runs[0].DryRun)

	records, err := store.LoadResults(ctx, batchID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "a.mp4", records[0].VideoName)
	assert.True(t, records[0].Success)
	assert.Equal(t, int64(1024), records[0].FileSizeBytes)
	assert.Empty(t, records[0].Error)

	assert.Equal(t, "b.mp4", records[1].VideoName)
	assert.False(t, records[1].Success)
	assert.Contains(t, records[1].Error, "no zh-Hans subtitle found")
}

func TestLoadRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, dir := range []string{"/first", "/second", "/third"} {
		_, err := store.SaveReport(ctx, BatchRun{
			RootDir:    dir,
			LangTag:    "en",
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}, nil)
		require.NoError(t, err)
	}

	runs, err := store.LoadRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "/third", runs[0].RootDir)
	assert.Equal(t, "/second", runs[1].RootDir)
}

func TestLoadResultsUnknownBatch(t *testing.T) {
	store := newTestStore(t)

	records, err := store.LoadResults(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening applies no migration twice.
	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveReport(context.Background(), BatchRun{
		RootDir:    "/movies",
		LangTag:    "en",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}, nil)
	assert.NoError(t, err)
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}
