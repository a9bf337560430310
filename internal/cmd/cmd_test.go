package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/testutil"
)

// isolateHome points HOME at an empty temp dir and returns it.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EZX_CONFIG", "")
	return home
}

// execute runs the root command and returns what it wrote to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

// copyFixtureScene copies the level01 fixture into a temp dir and returns
// its path.
func copyFixtureScene(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(testutil.FixturePath(t, "scenes", "level01.yaml"))
	require.NoError(t, err)
	return testutil.WriteFile(t, t.TempDir(), "level01.yaml", string(data))
}

func writeScene(t *testing.T, content string) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "scene.yaml", content)
}

func writePreferences(t *testing.T, content string) string {
	t.Helper()
	home := isolateHome(t)
	return testutil.WriteFile(t, filepath.Join(home, ".ezexport"), "config.yaml", content)
}
