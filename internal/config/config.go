package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Relay   RelayConfig   `mapstructure:"relay"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RelayConfig holds the relay endpoint used by the transport layer
type RelayConfig struct {
	URL string `mapstructure:"url"` // Relay URL
}

// ChatConfig holds chat session preferences
type ChatConfig struct {
	DefaultGroup string `mapstructure:"default_group"` // Reserved group name used when restoring selection
	PageSize     int    `mapstructure:"page_size"`     // Messages added per load-more step
}

// StorageConfig holds local durable-state configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // Directory for the bolt database; empty = default path
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Relay: RelayConfig{
			URL: "",
		},
		Chat: ChatConfig{
			DefaultGroup: "general",
			PageSize:     20,
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "parley", "parley.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "parley", "parley.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "parley")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "parley")
	}
}

// defaultDataPath returns the default durable-data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "parley", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "parley", "data")
	}
}

// LoadConfig loads configuration from file and environment. Each call reads
// fresh state; nothing is memoized between calls.
func LoadConfig() (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	// Every key needs a registered default; environment overrides only
	// apply to keys viper knows about.
	v.SetDefault("relay.url", defaults.Relay.URL)
	v.SetDefault("chat.default_group", defaults.Chat.DefaultGroup)
	v.SetDefault("chat.page_size", defaults.Chat.PageSize)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)

	// Environment variable overrides: PARLEY_RELAY_URL, PARLEY_CHAT_PAGE_SIZE, ...
	v.SetEnvPrefix("PARLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the default config file.
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("relay.url", cfg.Relay.URL)

	v.Set("chat.default_group", cfg.Chat.DefaultGroup)
	v.Set("chat.page_size", cfg.Chat.PageSize)

	v.Set("storage.data_dir", cfg.Storage.DataDir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the config directory path
func GetConfigPath() string {
	return defaultConfigPath()
}

// GetDataPath returns the durable-data directory from cfg, falling back to
// the OS default when unset.
func (c *Config) GetDataPath() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	return defaultDataPath()
}

// ClearData removes the durable-data directory (selection state database)
func (c *Config) ClearData() error {
	dataPath := c.GetDataPath()
	if err := os.RemoveAll(dataPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}
