package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
	{"t":"g","u":"https://www.google.com/search?q={{{s}}}","s":"Google","d":"www.google.com","r":10,"c":"Online Services","sc":"Search"},
	{"t":"w","u":"https://en.wikipedia.org/wiki/Special:Search?search={{{s}}}","s":"Wikipedia","d":"en.wikipedia.org","r":8,"c":"Research","sc":"Reference"}
]`

type testEnv struct {
	dir        string
	configPath string
	catalog    string
	store      string
}

// newTestEnv writes a config whose every path lives under a temp dir
func newTestEnv(t *testing.T, withCatalog bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		catalog:    filepath.Join(dir, "bangs", "db.json"),
		store:      filepath.Join(dir, "bangs.db"),
	}

	if withCatalog {
		require.NoError(t, os.MkdirAll(filepath.Dir(env.catalog), 0o755))
		require.NoError(t, os.WriteFile(env.catalog, []byte(testCatalog), 0o644))
	}
	env.writeConfig(t, "")
	return env
}

func (e *testEnv) writeConfig(t *testing.T, extra string) {
	t.Helper()
	cfg := "catalog_paths:\n  - " + e.catalog + "\n" +
		"store_path: " + e.store + "\n" +
		"database_url: \"\"\n" +
		"watch: false\n" +
		"log_file: " + filepath.Join(e.dir, "gobangs.log") + "\n" +
		extra
	require.NoError(t, os.WriteFile(e.configPath, []byte(cfg), 0o644))
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t, false)
	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gobangs dev")
	assert.Contains(t, out, "sqlite:")
}

func TestSearchCmd(t *testing.T) {
	env := newTestEnv(t, true)

	out, err := env.run(t, "", "search", "!wiki")
	require.NoError(t, err)
	assert.Equal(t, "w | Wikipedia (en.wikipedia.org)\tResearch > Reference\n", out)

	out, err = env.run(t, "", "search", "--json", "-n", "1", "!")
	require.NoError(t, err)

	var items []searchItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, uint32(1), items[0].ID)
	assert.Equal(t, "g | Google (www.google.com)", items[0].Name)
}

func TestSearchCmd_NoOpenShortcut(t *testing.T) {
	env := newTestEnv(t, true)
	out, err := env.run(t, "", "search", "!w", "golang")
	require.NoError(t, err)
	assert.Equal(t, "!w golang\tOpen w\n", out)
}

func TestOpenCmd_Print(t *testing.T) {
	env := newTestEnv(t, true)

	out, err := env.run(t, "", "open", "--print", "!g,w", "go", "&", "rust")
	require.NoError(t, err)
	assert.Equal(t,
		"https://www.google.com/search?q=go%20%26%20rust\n"+
			"https://en.wikipedia.org/wiki/Special:Search?search=go%20%26%20rust\n",
		out)
}

func TestOpenCmd_DefaultTriggers(t *testing.T) {
	env := newTestEnv(t, true)
	env.writeConfig(t, "default_triggers:\n  - w\n")

	out, err := env.run(t, "", "open", "-p", "gophers")
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Special:Search?search=gophers\n", out)
}

func TestOpenCmd_NothingToOpen(t *testing.T) {
	env := newTestEnv(t, true)
	_, err := env.run(t, "", "open", "-p", "!nope", "query")
	assert.Error(t, err)
}

func TestPluginCmd_Session(t *testing.T) {
	env := newTestEnv(t, true)

	stdin := `{"Search":"!wiki"}` + "\n" +
		`{"Complete":1}` + "\n" +
		"not json\n" +
		`"Exit"` + "\n"

	out, err := env.run(t, stdin, "plugin")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"Append":{"id":1,"name":"w | Wikipedia (en.wikipedia.org)","description":"Research > Reference"}}`, lines[0])
	assert.JSONEq(t, `"Finished"`, lines[1])
	assert.JSONEq(t, `{"Fill":"!w "}`, lines[2])
}

func TestRootCmd_DefaultsToPlugin(t *testing.T) {
	env := newTestEnv(t, true)
	out, err := env.run(t, `{"Search":"!goo"}`+"\n")
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"g | Google (www.google.com)"`)
	assert.Contains(t, out, `"Finished"`)
}

func TestFetchAndStatusCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, testCatalog)
	}))
	defer srv.Close()

	env := newTestEnv(t, false)

	out, err := env.run(t, "", "fetch", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "duckduckgo: 2 bangs written to "+env.catalog)
	assert.FileExists(t, env.catalog)

	out, err = env.run(t, "", "fetch", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "duckduckgo is up to date")

	out, err = env.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog: 2 bangs")
	assert.Contains(t, out, "duckduckgo")
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, false)
	env.writeConfig(t, "max_results: 0\n")
	_, err := env.run(t, "", "search", "!g")
	assert.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	env := newTestEnv(t, true)
	env.writeConfig(t, "bangs:\n  - trigger: gh\n    url: https://github.com/search?q={{{s}}}\n    name: GitHub\n    relevance: 20\n")

	out, err := env.run(t, "", "export")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"t":"gh","u":"https://github.com/search?q={{{s}}}","s":"GitHub","r":20},
		{"t":"g","u":"https://www.google.com/search?q={{{s}}}","s":"Google","d":"www.google.com","r":10,"c":"Online Services","sc":"Search"},
		{"t":"w","u":"https://en.wikipedia.org/wiki/Special:Search?search={{{s}}}","s":"Wikipedia","d":"en.wikipedia.org","r":8,"c":"Research","sc":"Reference"}
	]`, out)

	path := filepath.Join(env.dir, "backup.json")
	out, err = env.run(t, "", "export", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, "3 bangs written to "+path+"\n", out)

	// The export reads back as a catalog of its own
	env.catalog = path
	env.writeConfig(t, "")
	out, err = env.run(t, "", "search", "--json", "!")
	require.NoError(t, err)
	var items []searchItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 3)
}

func TestFetchCmd_Remove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, testCatalog)
	}))
	defer srv.Close()

	env := newTestEnv(t, false)
	storePath := filepath.Join(env.dir, "kagi.json")

	_, err := env.run(t, "", "fetch", "--name", "kagi", "--url", srv.URL, "--path", storePath)
	require.NoError(t, err)

	out, err := env.run(t, "", "fetch", "--remove", "--name", "kagi")
	require.NoError(t, err)
	assert.Equal(t, "kagi removed from the store\n", out)

	out, err = env.run(t, "", "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "kagi")

	_, err = env.run(t, "", "fetch", "--remove", "--name", "kagi")
	assert.Error(t, err)
}
