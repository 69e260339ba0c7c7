package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MINHYPR_STATE_DIR.
	EnvPrefix = "MINHYPR"

	specialPrefix = "special:"

	DefaultHiddenWorkspace = "minimized"
	DefaultStateDir        = "/tmp/minhypr-state"
	DefaultPreviewDir      = "/tmp/minhypr-previews"
	DefaultDispatch        = "socket"
	DefaultCommandTimeout  = 5 * time.Second
	DefaultLogLevel        = "warn"

	storeFileName = "windows.json"
	lockFileName  = "windows.lock"
)

// Config is the top-level configuration document.
type Config struct {
	HiddenWorkspace string          `yaml:"hiddenWorkspace"`
	StateDir        string          `yaml:"stateDir"`
	PreviewDir      string          `yaml:"previewDir"`
	Dispatch        string          `yaml:"dispatch"`
	CommandTimeout  time.Duration   `yaml:"commandTimeout"`
	LogLevel        string          `yaml:"logLevel"`
	Preview         PreviewConfig   `yaml:"preview"`
	Notify          NotifyConfig    `yaml:"notify"`
	Denylist        []MatcherConfig `yaml:"denylist"`
	Icons           []IconConfig    `yaml:"icons"`
}

// UnmarshalYAML handles deprecated fields while decoding configuration files.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		HiddenWorkspace       *string         `yaml:"hiddenWorkspace"`
		LegacyHiddenWorkspace *string         `yaml:"minimizedWorkspace"`
		StateDir              string          `yaml:"stateDir"`
		PreviewDir            string          `yaml:"previewDir"`
		Dispatch              string          `yaml:"dispatch"`
		CommandTimeout        time.Duration   `yaml:"commandTimeout"`
		LogLevel              string          `yaml:"logLevel"`
		Preview               *PreviewConfig  `yaml:"preview"`
		Notify                *NotifyConfig   `yaml:"notify"`
		Denylist              []MatcherConfig `yaml:"denylist"`
		Icons                 []IconConfig    `yaml:"icons"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.StateDir = raw.StateDir
	c.PreviewDir = raw.PreviewDir
	c.Dispatch = raw.Dispatch
	c.CommandTimeout = raw.CommandTimeout
	c.LogLevel = raw.LogLevel
	c.Denylist = raw.Denylist
	c.Icons = raw.Icons
	if raw.Preview != nil {
		c.Preview = *raw.Preview
	}
	if raw.Notify != nil {
		c.Notify = *raw.Notify
	}

	switch {
	case raw.HiddenWorkspace != nil:
		c.HiddenWorkspace = *raw.HiddenWorkspace
	case raw.LegacyHiddenWorkspace != nil:
		c.HiddenWorkspace = *raw.LegacyHiddenWorkspace
	}
	return nil
}

// PreviewConfig controls window thumbnail capture.
type PreviewConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Resizer     string `yaml:"resizer"`
	ThumbWidth  int    `yaml:"thumbWidth"`
	ThumbHeight int    `yaml:"thumbHeight"`
	IconSize    int    `yaml:"iconSize"`
	Quality     int    `yaml:"quality"`
}

// UnmarshalYAML defaults Enabled to true when the key is omitted.
func (p *PreviewConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawPreview PreviewConfig
	raw := rawPreview(DefaultPreview())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = PreviewConfig(raw)
	return nil
}

// NotifyConfig describes the status-bar refresh signal.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Process string `yaml:"process"`
	Signal  int    `yaml:"signal"`
}

// UnmarshalYAML defaults Enabled to true when the key is omitted.
func (n *NotifyConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawNotify NotifyConfig
	raw := rawNotify(DefaultNotify())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*n = NotifyConfig(raw)
	return nil
}

// MatcherConfig describes a client matcher used by the minimize denylist.
type MatcherConfig struct {
	Class      string   `yaml:"class"`
	AnyClass   []string `yaml:"anyClass"`
	TitleRegex string   `yaml:"titleRegex"`
}

// IconConfig adds a glyph for class names containing Match.
type IconConfig struct {
	Match string `yaml:"match"`
	Glyph string `yaml:"glyph"`
}

// Paths holds every filesystem location the tool touches. It is derived once
// at startup and handed to each component.
type Paths struct {
	StateDir   string
	StoreFile  string
	LockFile   string
	PreviewDir string
	ConfigDir  string
}

type envOverrides struct {
	StateDir        string        `envconfig:"STATE_DIR"`
	PreviewDir      string        `envconfig:"PREVIEW_DIR"`
	HiddenWorkspace string        `envconfig:"HIDDEN_WORKSPACE"`
	Dispatch        string        `envconfig:"DISPATCH"`
	LogLevel        string        `envconfig:"LOG_LEVEL"`
	CommandTimeout  time.Duration `envconfig:"COMMAND_TIMEOUT"`
}

// DefaultPreview returns the preview settings used when none are configured.
func DefaultPreview() PreviewConfig {
	return PreviewConfig{
		Enabled:     true,
		Resizer:     "auto",
		ThumbWidth:  200,
		ThumbHeight: 150,
		IconSize:    64,
		Quality:     90,
	}
}

// DefaultNotify returns the waybar refresh signal (SIGRTMIN+8).
func DefaultNotify() NotifyConfig {
	return NotifyConfig{Enabled: true, Process: "waybar", Signal: 8}
}

// DefaultDenylist keeps menu launchers from minimizing themselves.
func DefaultDenylist() []MatcherConfig {
	return []MatcherConfig{{AnyClass: []string{"wofi", "rofi"}}}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Preview: DefaultPreview(), Notify: DefaultNotify()}
	cfg.applyDefaults()
	return cfg
}

// DefaultConfigDir returns ~/.config/minhypr, falling back to /tmp when HOME is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "minhypr")
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads the configuration file, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		data = nil
	}
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration payload without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	cfg := &Config{Preview: DefaultPreview(), Notify: DefaultNotify()}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if env.StateDir != "" {
		c.StateDir = env.StateDir
	}
	if env.PreviewDir != "" {
		c.PreviewDir = env.PreviewDir
	}
	if env.HiddenWorkspace != "" {
		c.HiddenWorkspace = env.HiddenWorkspace
	}
	if env.Dispatch != "" {
		c.Dispatch = env.Dispatch
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.CommandTimeout != 0 {
		c.CommandTimeout = env.CommandTimeout
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.HiddenWorkspace = strings.TrimPrefix(strings.TrimSpace(c.HiddenWorkspace), specialPrefix)
	if c.HiddenWorkspace == "" {
		c.HiddenWorkspace = DefaultHiddenWorkspace
	}
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if c.PreviewDir == "" {
		c.PreviewDir = DefaultPreviewDir
	}
	c.Dispatch = strings.ToLower(c.Dispatch)
	if c.Dispatch == "" {
		c.Dispatch = DefaultDispatch
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Preview.Resizer = strings.ToLower(c.Preview.Resizer)
	if c.Preview.Resizer == "" {
		c.Preview.Resizer = "auto"
	}
	if c.Notify.Process == "" {
		c.Notify.Process = DefaultNotify().Process
	}
	switch {
	case c.Denylist == nil:
		c.Denylist = DefaultDenylist()
	case len(c.Denylist) > 0 && !hasLauncherMatcher(c.Denylist):
		// Extra matchers add to the launcher guard; only an explicit empty list drops it.
		c.Denylist = append(DefaultDenylist(), c.Denylist...)
	}
}

func hasLauncherMatcher(matchers []MatcherConfig) bool {
	launcher := DefaultDenylist()[0]
	for _, m := range matchers {
		if m.Class == "" && m.TitleRegex == "" && slices.Equal(m.AnyClass, launcher.AnyClass) {
			return true
		}
	}
	return false
}

// SpecialWorkspace returns the hyprctl name of the hidden workspace.
func (c *Config) SpecialWorkspace() string {
	return specialPrefix + c.HiddenWorkspace
}

// Paths derives the filesystem layout from the configuration.
func (c *Config) Paths() Paths {
	configDir := DefaultConfigDir()
	return Paths{
		StateDir:   c.StateDir,
		StoreFile:  filepath.Join(c.StateDir, storeFileName),
		LockFile:   filepath.Join(c.StateDir, lockFileName),
		PreviewDir: c.PreviewDir,
		ConfigDir:  configDir,
	}
}

// Validate performs basic sanity checks.
func (c *Config) Validate() error {
	if c.HiddenWorkspace == "" {
		return fmt.Errorf("hiddenWorkspace cannot be empty")
	}
	if strings.ContainsAny(c.HiddenWorkspace, ", \t\n") {
		return fmt.Errorf("hiddenWorkspace %q must not contain commas or whitespace", c.HiddenWorkspace)
	}
	switch c.Dispatch {
	case "socket", "hyprctl":
	default:
		return fmt.Errorf("unsupported dispatch strategy %q", c.Dispatch)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("commandTimeout cannot be negative")
	}
	switch c.Preview.Resizer {
	case "auto", "convert", "native":
	default:
		return fmt.Errorf("preview.resizer must be auto, convert or native, got %q", c.Preview.Resizer)
	}
	if c.Preview.ThumbWidth <= 0 || c.Preview.ThumbHeight <= 0 {
		return fmt.Errorf("preview thumbnail size must be positive")
	}
	if c.Preview.IconSize <= 0 {
		return fmt.Errorf("preview.iconSize must be positive")
	}
	if c.Preview.Quality < 1 || c.Preview.Quality > 100 {
		return fmt.Errorf("preview.quality must be between 1 and 100, got %d", c.Preview.Quality)
	}
	if c.Notify.Signal < 0 || c.Notify.Signal > 30 {
		return fmt.Errorf("notify.signal must be an offset between 0 and 30 from SIGRTMIN, got %d", c.Notify.Signal)
	}
	for i, m := range c.Denylist {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("denylist[%d]: %w", i, err)
		}
	}
	for i, icon := range c.Icons {
		if icon.Match == "" || icon.Glyph == "" {
			return fmt.Errorf("icons[%d]: match and glyph are required", i)
		}
	}
	return nil
}

// Validate ensures matcher configuration has at least one selection criteria.
func (m MatcherConfig) Validate() error {
	if m.Class == "" && len(m.AnyClass) == 0 && m.TitleRegex == "" {
		return fmt.Errorf("must define class, anyClass, or titleRegex")
	}
	return nil
}
