package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrConfigExists is returned by Write when the file exists and force is not set.
var ErrConfigExists = errors.New("config file already exists")

type fileConfig struct {
	EnableSelector  bool        `toml:"enable_selector"`
	Selector        string      `toml:"selector"`
	TermExecArgs    string      `toml:"term_exec_args"`
	ExpandWildcards bool        `toml:"expand_wildcards"`
	AppLaunchPrefix string      `toml:"app_launch_prefix"`
	PromptTemplate  string      `toml:"prompt_template"`
	HeaderTemplate  string      `toml:"header_template"`
	Cache           fileCache   `toml:"cache"`
	Markers         fileMarkers `toml:"markers"`
}

type fileCache struct {
	Backend string `toml:"backend"`
	MaxAge  string `toml:"max_age"`
	Path    string `toml:"path,omitempty"`
}

type fileMarkers struct {
	Default   string `toml:"default"`
	XDG       string `toml:"xdg"`
	Available string `toml:"available"`
	Regex     string `toml:"regex"`
}

// Marshal encodes cfg as TOML in the layout Load reads back.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(fileConfig{
		EnableSelector:  cfg.EnableSelector,
		Selector:        cfg.Selector,
		TermExecArgs:    cfg.TermExecArgs,
		ExpandWildcards: cfg.ExpandWildcards,
		AppLaunchPrefix: cfg.AppLaunchPrefix,
		PromptTemplate:  cfg.PromptTemplate,
		HeaderTemplate:  cfg.HeaderTemplate,
		Cache: fileCache{
			Backend: cfg.Cache.Backend,
			MaxAge:  cfg.Cache.MaxAge.String(),
			Path:    cfg.Cache.Path,
		},
		Markers: fileMarkers{
			Default:   cfg.Markers.Default,
			XDG:       cfg.Markers.XDG,
			Available: cfg.Markers.Available,
			Regex:     cfg.Markers.Regex,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return data, nil
}

// Write stores cfg at path as TOML, creating parent directories. An existing
// file is only replaced when force is set.
func Write(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
