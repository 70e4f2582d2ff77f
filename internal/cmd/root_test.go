package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametracker/gametracker/internal/errors"
	"github.com/gametracker/gametracker/internal/session"
)

// resetRuntime points the command stack at a throwaway config and
// data dir, so tests never touch the user's real session.
func resetRuntime(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "api_url: http://127.0.0.1:0/api\ndata_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	app = nil
	cfgFile = cfgPath
	t.Cleanup(func() {
		app = nil
		cfgFile = ""
	})
	return dir
}

func TestGetRuntimeBuildsClientStack(t *testing.T) {
	dir := resetRuntime(t)

	rt, err := getRuntime()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:0/api", rt.cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, "session.json"), rt.cfg.SessionPath())
	assert.NotNil(t, rt.client)
	assert.False(t, rt.store.IsAuthenticated())

	// The runtime is built once and shared between commands.
	again, err := getRuntime()
	require.NoError(t, err)
	assert.Same(t, rt, again)
}

func TestGetRuntimeRestoresPersistedSession(t *testing.T) {
	dir := resetRuntime(t)

	seed := session.NewStore(filepath.Join(dir, "session.json"), nil)
	require.NoError(t, seed.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1", Username: "alice"},
	}))

	rt, err := getRuntime()
	require.NoError(t, err)

	assert.True(t, rt.store.IsAuthenticated())
	user, ok := rt.store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestRequireAuth(t *testing.T) {
	resetRuntime(t)

	rt, err := getRuntime()
	require.NoError(t, err)

	err = requireAuth(rt)
	require.Error(t, err)
	var trackerErr *errors.TrackerError
	require.ErrorAs(t, err, &trackerErr)
	assert.Equal(t, errors.ErrCodeAuthRequired, trackerErr.Code)

	require.NoError(t, rt.store.Save(session.Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.User{ID: "u1", Username: "alice"},
	}))
	assert.NoError(t, requireAuth(rt))
}

func TestCommandTreeIsWired(t *testing.T) {
	expected := []string{"auth", "games", "library", "reviews", "forum", "browse", "config", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %q is not registered", name)
	}
}
