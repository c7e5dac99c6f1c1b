package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobangs/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDB(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type fakeLister struct {
	bangs map[string][]types.Bang
	err   error
}

func (f *fakeLister) ListBangs(ctx context.Context, source string) ([]types.Bang, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bangs[source], nil
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := writeDB(t, dir, "db.json", `[{"t":"g","u":"https://g.example"}]`)

	src := FileSource{Path: path}
	assert.Equal(t, path, src.Name())

	bangs, warnings, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, bangs, 1)

	_, _, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Records(context.Background())
	assert.Error(t, err)
}

func TestStoreSource(t *testing.T) {
	lister := &fakeLister{bangs: map[string][]types.Bang{
		"default": {{Trigger: "g", URL: "u"}},
	}}

	src := StoreSource{Store: lister, Source: "default"}
	assert.Equal(t, "store:default", src.Name())

	bangs, _, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, bangs, 1)

	lister.err = errors.New("db closed")
	_, _, err = src.Records(context.Background())
	assert.Error(t, err)
}

func TestLoadSources_MergesInOrder(t *testing.T) {
	dir := t.TempDir()
	system := writeDB(t, dir, "system.json", `[
		{"t":"g","u":"https://system.example/?q={{{s}}}","r":10},
		{"t":"w","u":"https://w.example/?q={{{s}}}","r":1}
	]`)
	user := writeDB(t, dir, "user.json", `[
		{"t":"g","u":"https://user.example/?q={{{s}}}","r":2}
	]`)

	cat, err := LoadSources(context.Background(), []Source{
		FileSource{Path: system},
		FileSource{Path: user},
	}, Options{}, discardLogger())
	require.NoError(t, err)

	require.Equal(t, 2, cat.Len())
	g, ok := cat.Get("g")
	require.True(t, ok)
	assert.Equal(t, "https://user.example/?q={{{s}}}", g.URL)
	assert.Equal(t, []string{"g", "w"}, triggers(cat))
}

func TestLoadSources_SkipsFailingSource(t *testing.T) {
	dir := t.TempDir()
	good := writeDB(t, dir, "good.json", `[{"t":"g","u":"https://g.example"}]`)
	broken := writeDB(t, dir, "broken.json", `{not an array}`)

	cat, err := LoadSources(context.Background(), []Source{
		FileSource{Path: broken},
		FileSource{Path: filepath.Join(dir, "missing.json")},
		StoreSource{Store: &fakeLister{err: errors.New("boom")}, Source: "default"},
		FileSource{Path: good},
	}, Options{}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, triggers(cat))
}

func TestLoadSources_NoSources(t *testing.T) {
	cat, err := LoadSources(context.Background(), nil, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestLoadSources_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadSources(ctx, []Source{
		StaticSource{Label: "static", Bangs: []types.Bang{{Trigger: "g", URL: "u"}}},
	}, Options{}, discardLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSources_Dedup(t *testing.T) {
	cat, err := LoadSources(context.Background(), []Source{
		StaticSource{Label: "a", Bangs: []types.Bang{
			{Trigger: "g", URL: "https://same.example", Relevance: 1},
		}},
		StaticSource{Label: "b", Bangs: []types.Bang{
			{Trigger: "google", URL: "https://same.example", Relevance: 7},
		}},
	}, Options{DedupByURL: true}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"google"}, triggers(cat))
}

func TestLoadSources_WarningsNameTheirSource(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cat, err := LoadSources(context.Background(), []Source{
		StaticSource{Label: "system", Bangs: []types.Bang{
			{Trigger: "g", URL: "https://g.example"},
		}},
		StaticSource{Label: "user", Bangs: []types.Bang{
			{Trigger: "w", URL: "https://w.example"},
			{Trigger: "", URL: "https://broken.example"},
		}},
	}, Options{}, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	assert.Contains(t, logs.String(), "user[1]: trigger cannot be empty")
	assert.NotContains(t, logs.String(), "records[")
}

func TestValidate(t *testing.T) {
	valid, warnings := Validate("db.json", []types.Bang{
		{Trigger: "g", URL: "u"},
		{Trigger: "w"},
	})
	require.Len(t, valid, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "db.json", warnings[0].Source)
	assert.Equal(t, 1, warnings[0].Index)
	assert.ErrorIs(t, warnings[0].Err, types.ErrEmptyURL)
	assert.Equal(t, `db.json[1] "w": url cannot be empty`, warnings[0].String())
}
