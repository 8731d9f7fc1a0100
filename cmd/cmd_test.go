package cmd

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"openkeep/api"
	"openkeep/config"
	"openkeep/core"
	"openkeep/database"
	"openkeep/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	return dir
}

func startAPI(t *testing.T) string {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "cmd.db")))
	t.Cleanup(func() { _ = database.CloseDB() })
	srv := httptest.NewServer(api.NewRouter(api.Options{
		Notes:  core.NewNoteService(),
		Labels: core.NewLabelService(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	notesArchived, notesTrashed, notesLabelID, notesQuery = false, false, "", ""
	noteTitle, noteContent, noteColor, notePin = "", "", "", false
	noteItems, noteLabelIDs = nil, nil
	dbPath, apiURLFlag, migrateSteps = "", "", 0
	if f := rootCmd.Flags().Lookup("version"); f != nil {
		_ = f.Value.Set("false")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

var idPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestNotesAndLabelsCommands(t *testing.T) {
	dir := isolate(t)
	apiURL := startAPI(t)
	logFlag := "--app-log=" + filepath.Join(dir, "app.log")

	out, err := run(t, logFlag, "--api-url", apiURL, "labels", "add", "groceries")
	require.NoError(t, err, out)
	labelID := idPattern.FindString(out)
	require.NotEmpty(t, labelID, out)

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "add", "--title", "Shopping", "--item", "milk", "--item", "eggs", "--label", labelID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "at position 1")
	noteID := idPattern.FindString(out)
	require.NotEmpty(t, noteID)

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Shopping")
	assert.Contains(t, out, "checklist")
	assert.Contains(t, out, "groceries")
	assert.Contains(t, out, "default #ffffff")

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "pin", noteID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "pinned")

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "trash", noteID)
	require.NoError(t, err, out)

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes found.")

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "list", "--trashed")
	require.NoError(t, err)
	assert.Contains(t, out, noteID)

	out, err = run(t, logFlag, "--api-url", apiURL, "notes", "empty-trash")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 trashed notes")

	out, err = run(t, logFlag, "--api-url", apiURL, "labels", "rename", labelID, "food")
	require.NoError(t, err, out)
	out, err = run(t, logFlag, "--api-url", apiURL, "labels", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "food")

	_, err = run(t, logFlag, "--api-url", apiURL, "labels", "add", "food")
	require.Error(t, err)

	_, err = run(t, logFlag, "--api-url", apiURL, "notes", "reorder", "ghost")
	require.Error(t, err)
}

func TestMigrateCommands(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "data", "migrate.db")
	logFlag := "--app-log=" + filepath.Join(dir, "app.log")

	out, err := run(t, logFlag, "--dbpath", db, "migrate", "up")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Schema version: 1")

	out, err = run(t, logFlag, "--dbpath", db, "migrate", "down")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Schema version: 0")
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRunServerShutsDownOnCancel(t *testing.T) {
	isolate(t)
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "server.db")))
	t.Cleanup(func() { _ = database.CloseDB() })
	config.AppConfig.Metrics.Enabled = true

	addr := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, addr, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "openkeep version "+version.AppVersion)
}
