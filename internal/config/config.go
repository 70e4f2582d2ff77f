// Package config loads client configuration from a YAML file and
// GAMETRACKER_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gametracker/gametracker/internal/errors"
)

// Configuration keys
const (
	apiURLKey         = "api_url"
	timeoutSecondsKey = "timeout_seconds"
	dataDirKey        = "data_dir"
	logLevelKey       = "log.level"
	logFormatKey      = "log.format"
)

// defaultAPIURL matches the backend's development default.
const defaultAPIURL = "http://localhost:5100/api"

// Config is the client configuration
type Config struct {
	// APIURL is the base URL of the GameTracker REST API
	APIURL string `mapstructure:"api_url" yaml:"api_url" validate:"required,url"`

	// TimeoutSeconds bounds every API call
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1,max=300"`

	// DataDir holds client state, most importantly the session file
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// Timeout returns the request timeout as a Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionPath returns the path of the persisted session file
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// DefaultDir returns the directory for the config file and client data.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "gametracker")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:         defaultAPIURL,
		TimeoutSeconds: 30,
		DataDir:        DefaultDir(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// envBindings maps configuration keys to their environment variables
func envBindings() map[string]string {
	return map[string]string{
		apiURLKey:         "GAMETRACKER_API_URL",
		timeoutSecondsKey: "GAMETRACKER_TIMEOUT_SECONDS",
		dataDirKey:        "GAMETRACKER_DATA_DIR",
		logLevelKey:       "GAMETRACKER_LOG_LEVEL",
		logFormatKey:      "GAMETRACKER_LOG_FORMAT",
	}
}

// Load reads the configuration from the given file (or the default
// location when path is empty) and the environment. A missing file is
// not an error; the defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
	}

	defaults := Default()
	v.SetDefault(apiURLKey, defaults.APIURL)
	v.SetDefault(timeoutSecondsKey, defaults.TimeoutSeconds)
	v.SetDefault(dataDirKey, defaults.DataDir)
	v.SetDefault(logLevelKey, defaults.Log.Level)
	v.SetDefault(logFormatKey, defaults.Log.Format)

	for configKey, envVar := range envBindings() {
		if err := v.BindEnv(configKey, envVar); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigRead, fmt.Sprintf("could not bind %s", envVar), err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file in the default search path is fine; an
		// explicitly named file that cannot be read is not.
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeConfigRead, "could not read config file", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigRead, "could not decode configuration", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}

	return &config, nil
}

// WriteDefault writes the built-in configuration as a YAML file, for
// 'gametracker config init'. Refuses to overwrite unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultPath()
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeConfigWrite, fmt.Sprintf("config file already exists: %s", path)).
				WithSuggestion("Use --force to overwrite it")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.NewFileWriteError(path, err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, "could not encode default configuration", err)
	}

	header := []byte("# GameTracker client configuration.\n# Every key can be overridden with a GAMETRACKER_* environment variable.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return errors.NewFileWriteError(path, err)
	}
	return nil
}
