package launcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/openit/internal/associations"
	"github.com/Norgate-AV/openit/internal/cache"
	"github.com/Norgate-AV/openit/internal/desktop"
	"github.com/Norgate-AV/openit/internal/finder"
)

const testTarget = "/home/user/test.txt"

// mockCommander implements Commander interface for testing
type mockCommander struct {
	startFunc func() error
}

func (m *mockCommander) Start() error {
	return m.startFunc()
}

func testApp(exec string) finder.ApplicationEntry {
	return finder.ApplicationEntry{
		Name:        "Test App",
		Exec:        exec,
		DesktopFile: "/usr/share/applications/testapp.desktop",
		Icon:        "testapp-icon",
		XDGPriority: -1,
	}
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name     string
		exec     string
		noIcon   bool
		wantArgs []string
		wantErr  error
	}{
		{name: "file code", exec: "texteditor %f", wantArgs: []string{"texteditor", testTarget}},
		{name: "extra args", exec: "editor --readonly %f", wantArgs: []string{"editor", "--readonly", testTarget}},
		{name: "file list", exec: "app %F", wantArgs: []string{"app", testTarget}},
		{name: "url", exec: "app %u", wantArgs: []string{"app", testTarget}},
		{name: "url list", exec: "app %U", wantArgs: []string{"app", testTarget}},
		{name: "no file code appends target", exec: "app", wantArgs: []string{"app", testTarget}},
		{name: "icon", exec: "app %i %f", wantArgs: []string{"app", "--icon", "testapp-icon", testTarget}},
		{name: "icon unset", exec: "app %i %f", noIcon: true, wantArgs: []string{"app", testTarget}},
		{name: "name", exec: "app --class=%c %f", wantArgs: []string{"app", "--class=Test App", testTarget}},
		{name: "desktop file", exec: "app %k", wantArgs: []string{"app", "/usr/share/applications/testapp.desktop", testTarget}},
		{name: "escaped percent", exec: "app 100%% %f", wantArgs: []string{"app", "100%", testTarget}},
		{name: "deprecated code dropped", exec: "app %d %f", wantArgs: []string{"app", testTarget}},
		{name: "quoted program", exec: `"/opt/My App/bin/app" %F`, wantArgs: []string{"/opt/My App/bin/app", testTarget}},
		{name: "embedded file code", exec: `sh -c "cat '%f'"`, wantArgs: []string{"sh", "-c", "cat '" + testTarget + "'"}},
		{name: "empty", exec: "", wantErr: ErrEmptyCommand},
		{name: "only codes", exec: "%i", noIcon: true, wantErr: ErrEmptyCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(tt.exec)
			if tt.noIcon {
				app.Icon = ""
			}

			got, err := Prepare(app, testTarget)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, got)
		})
	}
}

func TestPrepare_UnterminatedQuote(t *testing.T) {
	_, err := Prepare(testApp(`app "unterminated %f`), testTarget)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse command")
}

func TestSplit_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("OPENIT_LAUNCH_SECRET", "leaked")

	got, err := Prepare(testApp(`app --opt=$OPENIT_LAUNCH_SECRET %f`), testTarget)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "--opt=", testTarget}, got)

	got, err = Prepare(testApp(`app '$OPENIT_LAUNCH_SECRET' %f`), testTarget)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "$OPENIT_LAUNCH_SECRET", testTarget}, got)
}

func TestBaseCommand(t *testing.T) {
	got, err := BaseCommand("kitty --single-instance %U")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitty", "--single-instance"}, got)

	_, err = BaseCommand("%U")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestLauncher_Command(t *testing.T) {
	terminal := []string{"kitty", "-e"}

	t.Run("plain", func(t *testing.T) {
		l := New(nil, nil)
		got, err := l.Command(testApp("gedit %f"), testTarget, terminal)
		require.NoError(t, err)
		assert.Equal(t, []string{"gedit", testTarget}, got)
	})

	t.Run("terminal", func(t *testing.T) {
		app := testApp("nvim %f")
		app.RequiresTerminal = true

		l := New(nil, nil)
		got, err := l.Command(app, testTarget, terminal)
		require.NoError(t, err)
		assert.Equal(t, []string{"kitty", "-e", "nvim", testTarget}, got)
		assert.Equal(t, []string{"kitty", "-e"}, terminal, "terminal slice must not be modified")
	})

	t.Run("prefix", func(t *testing.T) {
		app := testApp("nvim %f")
		app.RequiresTerminal = true

		l := New([]string{"uwsm", "app", "--"}, nil)
		got, err := l.Command(app, testTarget, terminal)
		require.NoError(t, err)
		assert.Equal(t, []string{"uwsm", "app", "--", "kitty", "-e", "nvim", testTarget}, got)
	})
}

func TestLauncher_Launch(t *testing.T) {
	tests := []struct {
		name     string
		startErr error
		wantErr  bool
	}{
		{name: "started", startErr: nil, wantErr: false},
		{name: "start fails", startErr: errors.New("exec: not found"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotName string
			var gotArgs []string

			l := New(nil, nil)
			l.execCommand = func(name string, args ...string) Commander {
				gotName = name
				gotArgs = args
				return &mockCommander{startFunc: func() error { return tt.startErr }}
			}

			err := l.Launch(testApp("gedit --new-window %f"), testTarget, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to execute gedit")
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, "gedit", gotName)
			assert.Equal(t, []string{"--new-window", testTarget}, gotArgs)
		})
	}
}

func TestLauncher_LaunchInvalidExec(t *testing.T) {
	called := false

	l := New(nil, nil)
	l.execCommand = func(string, ...string) Commander {
		called = true
		return &mockCommander{startFunc: func() error { return nil }}
	}

	err := l.Launch(testApp(""), testTarget, nil)
	assert.ErrorIs(t, err, ErrEmptyCommand)
	assert.False(t, called)
}

func terminalFinder(assoc map[string][]string, files map[string]*desktop.File) *finder.Finder {
	c := cache.NewMemoryCache()
	for path, f := range files {
		c.Insert(path, f)
	}

	return finder.New(c, associations.New(assoc))
}

func emulator(name, exec string, terminal bool) *desktop.File {
	return &desktop.File{
		MainEntry: &desktop.Entry{
			Name:       name,
			Exec:       exec,
			Terminal:   terminal,
			Categories: []string{desktop.CategoryTerminalEmulator},
		},
	}
}

func TestResolveTerminal(t *testing.T) {
	files := map[string]*desktop.File{
		"/apps/a-term.desktop": emulator("A Term", "a-term", true),
		"/apps/kitty.desktop":  emulator("kitty", "kitty --single-instance %U", false),
		"/apps/foot.desktop":   emulator("foot", "foot", false),
	}

	t.Run("association preferred", func(t *testing.T) {
		f := terminalFinder(map[string][]string{TerminalScheme: {"a-term.desktop", "kitty.desktop"}}, files)

		got, err := ResolveTerminal(f, "-e")
		require.NoError(t, err)
		assert.Equal(t, []string{"kitty", "--single-instance", "-e"}, got)
	})

	t.Run("fallback to installed emulators", func(t *testing.T) {
		f := terminalFinder(nil, files)

		got, err := ResolveTerminal(f, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"foot"}, got)
	})

	t.Run("only terminal bound emulators", func(t *testing.T) {
		f := terminalFinder(nil, map[string]*desktop.File{
			"/apps/a-term.desktop": emulator("A Term", "a-term", true),
		})

		got, err := ResolveTerminal(f, "--exec")
		require.NoError(t, err)
		assert.Equal(t, []string{"a-term", "--exec"}, got)
	})

	t.Run("none installed", func(t *testing.T) {
		_, err := ResolveTerminal(terminalFinder(nil, nil), "-e")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no terminal emulator found")
	})
}
