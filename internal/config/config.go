package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/appdiag/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel  = string(LogLevelInfo)
	DefaultEnvPrefix = "APPDIAG"
	configName       = "appdiag"
	configType       = "toml"
)

type AppConfig struct {
	Version       string `mapstructure:"version"`
	ResourcesPath string `mapstructure:"resources_path"`
	Sandboxed     bool   `mapstructure:"sandboxed"`
	MAS           bool   `mapstructure:"mas"`
	WindowsStore  bool   `mapstructure:"windows_store"`
}

type Config struct {
	LogLevel   string    `mapstructure:"log_level"`
	SettingsDB string    `mapstructure:"settings_db"`
	BackupDir  string    `mapstructure:"backup_dir"`
	Once       bool      `mapstructure:"once"`
	Set        []string  `mapstructure:"set"`
	App        AppConfig `mapstructure:"app"`
}

func (c *Config) GetLogLevel() string      { return c.LogLevel }
func (c *Config) GetSettingsDBPath() string { return c.SettingsDB }
func (c *Config) GetBackupDir() string      { return c.BackupDir }
func (c *Config) IsRunOnce() bool           { return c.Once }
func (c *Config) GetApp() AppConfig         { return c.App }

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, configName)
	}

	return filepath.Join(os.TempDir(), configName)
}

// Load reads configuration from the config file, environment and the given
// command line arguments, in increasing order of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	dataDir := defaultDataDir()

	// Define flags
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to the configuration file")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("settings-db", filepath.Join(dataDir, "settings.db"), "Path to the application settings database")
	fs.String("backup-dir", filepath.Join(dataDir, "backups"), "Directory for settings database backups")
	fs.Bool("once", false, "Run a single diagnostics pass and exit")
	setFlag := fs.StringArray("set", nil, "Store a setting before reporting, as name=<json> (repeatable)")
	fs.String("app-version", "", "Application version reported as process info")
	fs.String("resources-path", "", "Application resources directory")
	fs.Bool("sandboxed", false, "Report the application as sandboxed")
	fs.Bool("mas", false, "Report the application as a Mac App Store build")
	fs.Bool("windows-store", false, "Report the application as a Windows Store build")

	// Parse flags
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("settings_db", filepath.Join(dataDir, "settings.db"))
	v.SetDefault("backup_dir", filepath.Join(dataDir, "backups"))
	v.SetDefault("once", false)
	v.SetDefault("app.version", "")
	v.SetDefault("app.resources_path", "")
	v.SetDefault("app.sandboxed", false)
	v.SetDefault("app.mas", false)
	v.SetDefault("app.windows_store", false)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"log_level":          "log-level",
		"settings_db":        "settings-db",
		"backup_dir":         "backup-dir",
		"once":               "once",
		"app.version":        "app-version",
		"app.resources_path": "resources-path",
		"app.sandboxed":      "sandboxed",
		"app.mas":            "mas",
		"app.windows_store":  "windows-store",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// Load configuration from file
	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}
	if configPath == "" {
		configPath = o.configPath
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath("/etc/" + configName)
		v.AddConfigPath(dataDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Unmarshal the configuration
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// Command line assignments are applied after the ones from the file
	cfg.Set = append(cfg.Set, *setFlag...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.SettingsDB == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "settings_db")
	}

	if _, err := c.Assignments(); err != nil {
		return err
	}

	return nil
}

// Assignments parses the name=<json> settings values in the order given
func (c *Config) Assignments() ([]Assignment, error) {
	errFactory := errors.New()

	assignments := make([]Assignment, 0, len(c.Set))
	for _, raw := range c.Set {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errFactory.WithData(errors.ErrInvalidConfig, "setting must be name=<json>: "+raw)
		}
		if !json.Valid([]byte(value)) {
			return nil, errFactory.WithData(errors.ErrInvalidConfig, "setting "+name+" is not valid JSON")
		}
		assignments = append(assignments, Assignment{Name: name, Value: json.RawMessage(value)})
	}

	return assignments, nil
}
