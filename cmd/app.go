package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Norgate-AV/openit/internal/associations"
	"github.com/Norgate-AV/openit/internal/cache"
	"github.com/Norgate-AV/openit/internal/config"
	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/logging"
	"github.com/Norgate-AV/openit/internal/mimeapps"
	"github.com/Norgate-AV/openit/internal/xdg"
)

// SkipHandlerValidationEnv disables the installed-handler check in set and add.
const SkipHandlerValidationEnv = "OPENIT_SKIP_HANDLER_VALIDATION"

// stdoutIsTerminal is swapped in tests
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// app carries what every command needs: the search paths, the merged
// configuration and a logger.
type app struct {
	dirs   xdg.Dirs
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	dirs := xdg.FromEnv()

	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.NewLoader(dirs).Load(cmd, configPath)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	return &app{
		dirs:   dirs,
		cfg:    cfg,
		logger: logging.New(cmd.ErrOrStderr(), verbose || cfg.Verbose),
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) cachePath() string {
	if a.cfg.Cache.Path != "" {
		return a.cfg.Cache.Path
	}

	return cache.DefaultPath(a.dirs, a.cfg.Cache.Backend)
}

// loadCache opens the configured cache and brings it up to date.
func (a *app) loadCache() (cache.Cache, error) {
	c, err := cache.New(a.cfg.Cache.Backend, a.cachePath(), cache.WithMaxAge(a.cfg.Cache.MaxAge))
	if err != nil {
		return nil, err
	}

	cache.Bootstrap(c, a.dirs.DesktopFileDirs(), a.logger)

	return c, nil
}

func (a *app) finder() (*finder.Finder, error) {
	c, err := a.loadCache()
	if err != nil {
		return nil, err
	}

	index := associations.Load(a.dirs, a.logger)
	a.logger.Debug("loaded associations", "keys", index.Len())

	return finder.New(c, index), nil
}

func (a *app) mimeappsPath() string {
	return mimeapps.DefaultPath(a.dirs)
}

func (a *app) loadMimeApps() (*mimeapps.MimeApps, error) {
	return mimeapps.Load(a.mimeappsPath())
}

func (a *app) saveMimeApps(m *mimeapps.MimeApps) error {
	path := a.mimeappsPath()
	if err := m.Save(path); err != nil {
		return err
	}

	a.logger.Debug("saved mimeapps", "path", path)

	return nil
}

// ensureHandlerExists checks that handler names an installed desktop file,
// or an existing file when given as a path.
func (a *app) ensureHandlerExists(handler string) error {
	if os.Getenv(SkipHandlerValidationEnv) != "" {
		return nil
	}

	if filepath.IsAbs(handler) || strings.Contains(handler, "/") {
		if _, err := os.Stat(handler); err == nil {
			return nil
		}
	}

	f, err := a.finder()
	if err != nil {
		return err
	}

	if _, _, ok := f.FindDesktopFile(handler); !ok {
		return fmt.Errorf("%w: %s is not among the installed applications", finder.ErrHandlerNotFound, handler)
	}

	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}

	return nil
}
