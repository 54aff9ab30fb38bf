package config

import (
	"fmt"
)

// Accepted values of logger.log_level. Critical is logged at error level.
const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

// Accepted values of logger.log_type.
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// Rotation bounds for the file logger, as passed to lumberjack.
const (
	MaxLogFileSizeMB = 100
	MaxLogBackups    = 10
	MaxLogAgeDays    = 365
)

// LoggerSettings is the logger section of Settings. The rotation fields are
// only read when LogType is file.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warning error critical"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// Validate checks the level and type, and the rotation settings of a file logger.
func (s *LoggerSettings) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}
	if s.LogType != LogTypeFile {
		return nil
	}

	switch {
	case s.FilePath == "":
		return fmt.Errorf("logger.file_path is required for the file logger")
	case !inRange(s.MaxSize, MaxLogFileSizeMB):
		return fmt.Errorf("logger.max_size must be between 1 and %d MB, got %d", MaxLogFileSizeMB, s.MaxSize)
	case !inRange(s.MaxBackups, MaxLogBackups):
		return fmt.Errorf("logger.max_backups must be between 1 and %d, got %d", MaxLogBackups, s.MaxBackups)
	case !inRange(s.MaxAge, MaxLogAgeDays):
		return fmt.Errorf("logger.max_age must be between 1 and %d days, got %d", MaxLogAgeDays, s.MaxAge)
	}
	return nil
}

func inRange(v, upper int) bool {
	return v >= 1 && v <= upper
}
