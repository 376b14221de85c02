// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/tidetext/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger"`
	Editor  EditorConfig                      `toml:"editor"`
	Storage StorageConfig                     `toml:"storage"`
	Plugins map[string]map[string]interface{} `toml:"plugins"` // [plugins.<name>] tables
}

// EditorConfig holds document-related settings.
type EditorConfig struct {
	ReadOnly     bool `toml:"read_only"`
	MaxHistory   int  `toml:"max_history"`   // redo entries kept
	JournalLimit int  `toml:"journal_limit"` // 0 = unbounded
}

// StorageConfig selects optional storage backends.
type StorageConfig struct {
	// SQLitePath enables "db:<name>" paths when non-empty.
	SQLitePath string `toml:"sqlite_path"`
	// Database enables the store at DefaultDatabasePath when SQLitePath is empty.
	Database bool `toml:"database"`
	// Clipboard enables "clipboard:" paths.
	Clipboard bool `toml:"clipboard"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "",
		},
		Editor: EditorConfig{
			MaxHistory:   DefaultMaxHistory,
			JournalLimit: DefaultJournalLimit,
		},
		Storage: StorageConfig{
			Clipboard: true,
		},
		Plugins: map[string]map[string]interface{}{},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tidetext/config.toml (or the
// platform equivalent), or "" when no config directory is known.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// dataPath places name under the user cache directory, falling back to the
// working directory.
func dataPath(name string) string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return name
	}
	return filepath.Join(cacheDir, AppName, name)
}

// DefaultLogPath is where logs go when no log file is configured.
func DefaultLogPath() string { return dataPath(DefaultLogFileName) }

// DefaultDatabasePath is the SQLite store used by `database = true`.
func DefaultDatabasePath() string { return dataPath(DefaultDatabaseFileName) }

// loadFromFile decodes a TOML file over cfg. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) (toml.MetaData, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return toml.MetaData{}, nil
	} else if err != nil {
		return toml.MetaData{}, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return metadata, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return metadata, nil
}

// validate resets out-of-range values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.MaxHistory <= 0 {
		c.Editor.MaxHistory = defaults.Editor.MaxHistory
	}
	if c.Editor.JournalLimit < 0 {
		c.Editor.JournalLimit = defaults.Editor.JournalLimit
	}
	if c.Storage.Database && c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = DefaultDatabasePath()
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]interface{}{}
	}
}

// Load builds a configuration from defaults, the TOML file at configFilePath
// (or the default location when empty) and flag overrides, then validates it.
// Unknown keys are returned so the caller can warn once logging is up.
func Load(configFilePath string, flags *Flags) (*Config, []string, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultConfigPath()
	}

	var undecoded []string
	var fileErr error
	if effectivePath != "" {
		// Decoding over the defaults keeps every key the file leaves out.
		metadata, err := loadFromFile(effectivePath, cfg)
		if err != nil {
			fileErr = err
		}
		for _, key := range metadata.Undecoded() {
			undecoded = append(undecoded, key.String())
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	cfg.validate()
	return cfg, undecoded, fileErr
}

// LoadConfig runs Load once and keeps the result for Get.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		var undecoded []string
		loadedConfig, undecoded, loadErr = Load(configFilePath, flags)
		if len(undecoded) > 0 {
			// Logger isn't initialized yet; stash for the caller via Undecoded.
			pendingUndecoded = undecoded
		}
	})
	return loadedConfig, loadErr
}

var pendingUndecoded []string

// Undecoded returns config keys LoadConfig did not recognize.
func Undecoded() []string {
	return pendingUndecoded
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// PluginValue returns one setting from a [plugins.<name>] table.
func (c *Config) PluginValue(pluginName, key string) (interface{}, bool) {
	section, ok := c.Plugins[pluginName]
	if !ok {
		return nil, false
	}
	value, ok := section[key]
	return value, ok
}
