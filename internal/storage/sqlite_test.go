package storage

import (
	"context"
	"crypto/sha256"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobangs/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func sampleBangs() []types.Bang {
	return []types.Bang{
		{Trigger: "g", URL: "https://www.google.com/search?q={{{s}}}", Name: "Google", Domain: "www.google.com", Category: "Online Services", Subcategory: "Search", Relevance: 10},
		{Trigger: "w", URL: "https://en.wikipedia.org/wiki/Special:Search?search={{{s}}}", Name: "Wikipedia", Relevance: 5},
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage.db)

	version, err := SchemaVersion(context.Background(), storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestNewSQLiteStorage_ReopenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bangs.db")

	first, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	src := &Source{Name: "duckduckgo"}
	require.NoError(t, first.ImportSource(context.Background(), src, sampleBangs()))
	require.NoError(t, first.Close())

	// Reopening must not re-apply migrations
	second, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer second.Close()

	bangs, err := second.ListBangs(context.Background(), "duckduckgo")
	require.NoError(t, err)
	assert.Len(t, bangs, 2)
}

func TestUpsertSource(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	fetched := time.Now().Add(-time.Hour).Truncate(time.Second)
	src := &Source{
		Name:        "duckduckgo",
		URL:         "https://duckduckgo.com/bang.js",
		ContentHash: sha256.Sum256([]byte("data")),
		FetchedAt:   fetched,
	}

	require.NoError(t, storage.UpsertSource(ctx, src))
	assert.Greater(t, src.ID, int64(0))
	firstID := src.ID

	got, err := storage.GetSource(ctx, "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, src.URL, got.URL)
	assert.Equal(t, src.ContentHash, got.ContentHash)
	assert.True(t, fetched.Equal(got.FetchedAt))

	// Upserting the same name keeps the row
	src.URL = "https://example.com/bang.js"
	require.NoError(t, storage.UpsertSource(ctx, src))
	assert.Equal(t, firstID, src.ID)

	got, err = storage.GetSource(ctx, "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/bang.js", got.URL)
}

func TestGetSource_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetSource(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportSource(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	src := &Source{Name: "duckduckgo", URL: "https://duckduckgo.com/bang.js", FetchedAt: time.Now()}
	require.NoError(t, storage.ImportSource(ctx, src, sampleBangs()))
	assert.Equal(t, 2, src.RecordCount)

	bangs, err := storage.ListBangs(ctx, "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, sampleBangs(), bangs)

	count, err := storage.CountBangs(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := storage.GetSource(ctx, "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RecordCount)
}

func TestImportSource_ReplacesPreviousBangs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	src := &Source{Name: "duckduckgo"}
	require.NoError(t, storage.ImportSource(ctx, src, sampleBangs()))

	next := []types.Bang{{Trigger: "ddg", URL: "https://duckduckgo.com/?q={{{s}}}"}}
	require.NoError(t, storage.ImportSource(ctx, src, next))

	bangs, err := storage.ListBangs(ctx, "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, next, bangs)
}

func TestReplaceBangs_RepeatedTriggerKeepsFirstPosition(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	src := &Source{Name: "local"}
	require.NoError(t, storage.ImportSource(ctx, src, []types.Bang{
		{Trigger: "a", URL: "https://a.example/{{{s}}}"},
		{Trigger: "b", URL: "https://b.example/{{{s}}}"},
		{Trigger: "a", URL: "https://a2.example/{{{s}}}", Relevance: 3},
	}))
	assert.Equal(t, 2, src.RecordCount)

	bangs, err := storage.ListBangs(ctx, "local")
	require.NoError(t, err)
	require.Len(t, bangs, 2)
	assert.Equal(t, "a", bangs[0].Trigger)
	assert.Equal(t, "https://a2.example/{{{s}}}", bangs[0].URL)
	assert.Equal(t, int64(3), bangs[0].Relevance)
	assert.Equal(t, "b", bangs[1].Trigger)
}

func TestListBangs_UnknownSource(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.ListBangs(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDeleteSources(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.ImportSource(ctx, &Source{Name: "b"}, sampleBangs()))
	require.NoError(t, storage.ImportSource(ctx, &Source{Name: "a"}, sampleBangs()[:1]))

	sources, err := storage.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a", sources[0].Name)
	assert.Equal(t, "b", sources[1].Name)

	require.NoError(t, storage.DeleteSource(ctx, "b"))
	assert.ErrorIs(t, storage.DeleteSource(ctx, "b"), ErrNotFound)

	// Bangs go with their source
	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.BangsCount)
}

func TestTransactionRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	src := &Source{Name: "pending"}
	require.NoError(t, tx.UpsertSource(ctx, src))
	_, err = tx.ReplaceBangs(ctx, src.ID, sampleBangs())
	require.NoError(t, err)

	inTx, err := tx.ListBangs(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, inTx, 2)

	require.NoError(t, tx.Rollback())

	_, err = storage.GetSource(ctx, "pending")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNestedTransaction(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	tx, err := storage.BeginTx(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.BeginTx(context.Background())
	assert.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	older := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	newer := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, storage.ImportSource(ctx, &Source{Name: "a", FetchedAt: older}, sampleBangs()))
	require.NoError(t, storage.ImportSource(ctx, &Source{Name: "b", FetchedAt: newer}, sampleBangs()[:1]))

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
	assert.Equal(t, BuildMode, status.BuildMode)
	assert.Len(t, status.Sources, 2)
	assert.Equal(t, 3, status.BangsCount)
	assert.True(t, newer.Equal(status.LastFetchedAt))
	assert.Greater(t, status.SizeMB, 0.0)
}
