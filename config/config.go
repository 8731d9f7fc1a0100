package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"openkeep/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir     string
	LogPathApp    string
	LogPathAccess string
	DBPath        string
	LogLevel      string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port            string        `mapstructure:"port"`
		LogPath         string        `mapstructure:"log_path"`
		AccessLogPath   string        `mapstructure:"access_log_path"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		Compress        bool          `mapstructure:"compress"`
	} `mapstructure:"server"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
	Client struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"client"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandTilde replaces a leading ~ with the user's home directory. On failure the path
// is returned unchanged.
func ExpandTilde(path string) string {
	expanded, err := expandTilde(path)
	if err != nil {
		return path
	}
	return expanded
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	paths.ConfigDir = filepath.Join(ExpandTilde(userConfigDirBase), "openkeep")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathAccess = filepath.Join(logDir, "access.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "openkeep.db")
	paths.LogLevel = "INFO"
	return paths
}

// newViper builds a viper instance with every default registered.
func newViper(defaults DefaultPaths) *viper.Viper {
	v := viper.New()
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8778")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("server.access_log_path", defaults.LogPathAccess)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.compress", true)
	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("client.base_url", "http://localhost:8778/api")
	v.SetDefault("client.timeout", 10*time.Second)

	v.SetEnvPrefix("OPENKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from defaults, an optional YAML file and OPENKEEP_*
// environment variables into a fresh Configuration. It does not touch AppConfig or the
// loggers.
func Load(cfgFile string) (Configuration, string, error) {
	var cfg Configuration
	defaults := GetDefaultConfigPaths()

	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	v := newViper(defaults)
	if cfgFile != "" {
		v.SetConfigFile(ExpandTilde(cfgFile))
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	configUsedMsg := "Using default/environment configuration."
	if err := v.ReadInConfig(); err == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, "", fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}

	cfg.Database.Path = ExpandTilde(cfg.Database.Path)
	cfg.Server.LogPath = ExpandTilde(cfg.Server.LogPath)
	cfg.Server.AccessLogPath = ExpandTilde(cfg.Server.AccessLogPath)
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	return cfg, configUsedMsg, nil
}

// Init loads the configuration into AppConfig, applies flag overrides and
// (re)initializes the global loggers.
func Init(cfgFile string, flagAppLogPath, flagLogLevel string) error {
	cfg, configUsedMsg, err := Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		return err
	}
	AppConfig = cfg

	if flagAppLogPath != "" {
		AppConfig.Server.LogPath = ExpandTilde(flagAppLogPath)
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Server.AccessLogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if flagAppLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}
	if !AppConfig.Metrics.Enabled {
		logger.Info("Prometheus metrics endpoint DISABLED.")
	}
	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}
