package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Norgate-AV/openit/internal/selector"
	"github.com/Norgate-AV/openit/internal/xdg"
)

// EnvPrefix namespaces environment overrides, e.g. OPENIT_ENABLE_SELECTOR.
const EnvPrefix = "OPENIT"

// flagKeys maps command flags to config keys
var flagKeys = map[string]string{
	"selector-command": "selector",
	"term-exec-args":   "term_exec_args",
	"expand-wildcards": "expand_wildcards",
	"verbose":          "verbose",
}

// Loader handles configuration loading from various sources
type Loader struct {
	dirs xdg.Dirs
}

// NewLoader creates a new configuration loader
func NewLoader(dirs xdg.Dirs) *Loader {
	return &Loader{dirs: dirs}
}

// Load layers defaults, the config file, the environment and cmd's flags.
// configPath, when set, replaces the lookup in the openit config directory
// and must exist.
func (l *Loader) Load(cmd *cobra.Command, configPath string) (*Config, error) {
	l.setupViperDefaults()

	if err := l.loadConfigFile(configPath); err != nil {
		return nil, err
	}

	l.bindEnv()
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("enable_selector", DefaultEnableSelector)
	viper.SetDefault("selector", DefaultSelector)
	viper.SetDefault("term_exec_args", DefaultTermExecArgs)
	viper.SetDefault("expand_wildcards", DefaultExpandWildcards)
	viper.SetDefault("app_launch_prefix", "")
	viper.SetDefault("cache.backend", DefaultCacheBackend)
	viper.SetDefault("cache.max_age", DefaultCacheMaxAge)
	viper.SetDefault("cache.path", "")
	viper.SetDefault("markers.default", selector.DefaultMarkers.Default)
	viper.SetDefault("markers.xdg", selector.DefaultMarkers.XDG)
	viper.SetDefault("markers.available", selector.DefaultMarkers.Available)
	viper.SetDefault("markers.regex", selector.DefaultMarkers.Regex)
	viper.SetDefault("prompt_template", DefaultPromptTemplate)
	viper.SetDefault("header_template", DefaultHeaderTemplate)
	viper.SetDefault("verbose", DefaultVerbose)
}

// loadConfigFile reads the explicit config file, or the first config.* in
// the openit config directory. A missing default file is not an error.
func (l *Loader) loadConfigFile(configPath string) error {
	if configPath == "" {
		configPath = FindConfig(Dir(l.dirs))
		if configPath == "" {
			return nil
		}
	} else if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return nil
}

// bindEnv lets OPENIT_* variables override file values
func (l *Loader) bindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}

	// --selector and --no-selector only count when given explicitly
	if f := cmd.Flags().Lookup("selector"); f != nil && f.Changed {
		viper.Set("enable_selector", true)
	}

	if f := cmd.Flags().Lookup("no-selector"); f != nil && f.Changed {
		viper.Set("enable_selector", false)
	}
}
