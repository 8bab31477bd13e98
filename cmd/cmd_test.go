package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/selector"
)

// env is an isolated XDG tree for one test
type env struct {
	root       string
	apps       string
	configHome string
	cacheHome  string
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	e := &env{
		root:       root,
		apps:       filepath.Join(root, "data", "applications"),
		configHome: filepath.Join(root, "config"),
		cacheHome:  filepath.Join(root, "cache"),
	}

	require.NoError(t, os.MkdirAll(e.apps, 0o755))

	t.Setenv("HOME", filepath.Join(root, "home"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CONFIG_HOME", e.configHome)
	t.Setenv("XDG_CACHE_HOME", e.cacheHome)
	t.Setenv("XDG_DATA_DIRS", filepath.Join(root, "system"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(root, "etc"))
	t.Setenv("XDG_CURRENT_DESKTOP", "")
	t.Setenv("OPENIT_CACHE_PATH", "")
	t.Setenv(SkipHandlerValidationEnv, "")

	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	return e
}

func (e *env) writeApp(t *testing.T, id, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(e.apps, id), []byte(content), 0o644))
}

func (e *env) writeMimeApps(t *testing.T, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(e.configHome, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configHome, "mimeapps.list"), []byte(content), 0o644))
}

func (e *env) writeFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(e.root, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	return path
}

func (e *env) readMimeApps(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(e.configHome, "mimeapps.list"))
	require.NoError(t, err)

	return string(data)
}

func desktopFile(name, exec, mimes string) string {
	return "[Desktop Entry]\nType=Application\nName=" + name + "\nExec=" + exec + "\nMimeType=" + mimes + "\n"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

type launchCall struct {
	app      finder.ApplicationEntry
	target   string
	terminal []string
	prefix   []string
}

type fakeLauncher struct {
	prefix []string
	calls  *[]launchCall
	err    error
}

func (f *fakeLauncher) Launch(app finder.ApplicationEntry, target string, terminal []string) error {
	*f.calls = append(*f.calls, launchCall{app: app, target: target, terminal: terminal, prefix: f.prefix})
	return f.err
}

func recordLaunches(t *testing.T, err error) *[]launchCall {
	t.Helper()

	calls := &[]launchCall{}
	orig := newLauncher
	newLauncher = func(prefix []string, _ *log.Logger) appLauncher {
		return &fakeLauncher{prefix: prefix, calls: calls, err: err}
	}
	t.Cleanup(func() { newLauncher = orig })

	return calls
}

type fakeSelector struct {
	choice int
	ok     bool
	seen   *[]finder.ApplicationEntry
	opts   *selector.Options
}

func (f *fakeSelector) Select(_ context.Context, entries []finder.ApplicationEntry, opts selector.Options) (int, bool, error) {
	*f.seen = entries
	*f.opts = opts
	return f.choice, f.ok, nil
}

func stubSelector(t *testing.T, choice int, ok bool) (*[]finder.ApplicationEntry, *selector.Options) {
	t.Helper()

	seen := &[]finder.ApplicationEntry{}
	opts := &selector.Options{}

	orig := newSelector
	newSelector = func(_ *log.Logger) appSelector {
		return &fakeSelector{choice: choice, ok: ok, seen: seen, opts: opts}
	}
	t.Cleanup(func() { newSelector = orig })

	return seen, opts
}
