package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. RSAKEY_KEY_KEY_SIZE or RSAKEY_LOGGER_LOG_LEVEL.
const EnvPrefix = "RSAKEY"

// Settings is the complete application configuration
type Settings struct {
	Logger LoggerSettings `mapstructure:"logger"`
	Key    KeySettings    `mapstructure:"key"`
}

// Validate checks every section of Settings
func (s *Settings) Validate() error {
	if err := s.Logger.Validate(); err != nil {
		return err
	}
	return s.Key.Validate()
}

// DefaultSettings returns the settings used when no configuration file is given
func DefaultSettings() *Settings {
	return &Settings{
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
		Key: KeySettings{
			KeySize:        2048,
			PublicExponent: pkey.DefaultPublicExponent,
			Padding:        pkey.PKCS1Padding,
			PEMCipher:      pkey.CipherAES256CBC,
		},
	}
}

// Load reads settings from an optional YAML file at path, applies environment
// overrides and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %w", err)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("logger.log_level", d.Logger.LogLevel)
	v.SetDefault("logger.log_type", d.Logger.LogType)
	v.SetDefault("logger.file_path", d.Logger.FilePath)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)

	v.SetDefault("key.key_size", d.Key.KeySize)
	v.SetDefault("key.public_exponent", d.Key.PublicExponent)
	v.SetDefault("key.padding", d.Key.Padding)
	v.SetDefault("key.pem_cipher", d.Key.PEMCipher)
}
