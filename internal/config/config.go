package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/Norgate-AV/openit/internal/cache"
	"github.com/Norgate-AV/openit/internal/selector"
)

// Default configuration values
const (
	DefaultEnableSelector  = false
	DefaultSelector        = "rofi -dmenu -i -p 'Open With: '"
	DefaultTermExecArgs    = "-e"
	DefaultExpandWildcards = false
	DefaultCacheBackend    = cache.BackendJSON
	DefaultCacheMaxAge     = cache.DefaultMaxAge
	DefaultPromptTemplate  = "Open '{file}' with: "
	DefaultHeaderTemplate  = "★=Default ▶=XDG Associated  =Available"
	DefaultVerbose         = false
)

// Holds the configuration options for openit
type Config struct {
	// Pipe candidates through Selector instead of launching the first one
	EnableSelector bool

	// Selector command line, run through sh -c
	Selector string

	// Arguments placed between the terminal emulator and a terminal application
	TermExecArgs string

	// Expand '*' in set/add/remove patterns against known keys
	ExpandWildcards bool

	// Command prepended to every launched application
	AppLaunchPrefix string

	Cache CacheConfig

	Markers selector.Markers

	PromptTemplate string
	HeaderTemplate string

	// Enable verbose output
	Verbose bool
}

// CacheConfig selects and tunes the desktop file cache.
type CacheConfig struct {
	Backend string
	MaxAge  time.Duration

	// Path overrides the default cache location
	Path string
}

var backends = []string{cache.BackendJSON, cache.BackendBolt, cache.BackendMemory}

func Load() (*Config, error) {
	cfg := &Config{
		EnableSelector:  viper.GetBool("enable_selector"),
		Selector:        viper.GetString("selector"),
		TermExecArgs:    viper.GetString("term_exec_args"),
		ExpandWildcards: viper.GetBool("expand_wildcards"),
		AppLaunchPrefix: viper.GetString("app_launch_prefix"),
		Cache: CacheConfig{
			Backend: viper.GetString("cache.backend"),
			MaxAge:  viper.GetDuration("cache.max_age"),
			Path:    viper.GetString("cache.path"),
		},
		Markers: selector.Markers{
			Default:   viper.GetString("markers.default"),
			XDG:       viper.GetString("markers.xdg"),
			Available: viper.GetString("markers.available"),
			Regex:     viper.GetString("markers.regex"),
		},
		PromptTemplate: viper.GetString("prompt_template"),
		HeaderTemplate: viper.GetString("header_template"),
		Verbose:        viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.Selector == "" {
		cfg.Selector = DefaultSelector
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}

	if !viper.IsSet("cache.max_age") {
		cfg.Cache.MaxAge = DefaultCacheMaxAge
	}

	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = DefaultPromptTemplate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file or flag is set.
func Default() *Config {
	return &Config{
		EnableSelector:  DefaultEnableSelector,
		Selector:        DefaultSelector,
		TermExecArgs:    DefaultTermExecArgs,
		ExpandWildcards: DefaultExpandWildcards,
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			MaxAge:  DefaultCacheMaxAge,
		},
		Markers:        selector.DefaultMarkers,
		PromptTemplate: DefaultPromptTemplate,
		HeaderTemplate: DefaultHeaderTemplate,
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend: %s (expected one of %v)", c.Cache.Backend, backends)
	}

	if c.Cache.MaxAge <= 0 {
		return fmt.Errorf("invalid cache max age: %s", c.Cache.MaxAge)
	}

	// Resolve cache path
	if c.Cache.Path != "" {
		abs, err := filepath.Abs(c.Cache.Path)
		if err != nil {
			return fmt.Errorf("invalid cache path: %v", err)
		}

		c.Cache.Path = abs
	}

	return nil
}
