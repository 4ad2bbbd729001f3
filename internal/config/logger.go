package config

import (
    "io"
    "os"
    "strings"

    "github.com/sirupsen/logrus"
    "gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects level, format and destination of the service log.
type LogConfig struct {
    Level      string
    JSON       bool
    File       string // empty writes to stdout
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
}

// LoadLogConfig reads LOG_* variables with defaults.
func LoadLogConfig() LogConfig {
    return LogConfig{
        Level:      envStr("LOG_LEVEL", "info"),
        JSON:       envBool("LOG_JSON", false),
        File:       envStr("LOG_FILE", ""),
        MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 10),
        MaxBackups: envInt("LOG_MAX_BACKUPS", 5),
        MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
    }
}

// NewLogger builds a logrus logger.  When a file is configured the output
// goes through a lumberjack rotating writer; the returned closer releases
// it and is a no-op otherwise.
func NewLogger(cfg LogConfig) (*logrus.Logger, io.Closer) {
    logger := logrus.New()
    lvl, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
    if err != nil {
        lvl = logrus.InfoLevel
    }
    logger.SetLevel(lvl)
    if cfg.JSON {
        logger.SetFormatter(&logrus.JSONFormatter{})
    } else {
        logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    }
    if cfg.File == "" {
        logger.SetOutput(os.Stdout)
        return logger, nopCloser{}
    }
    rotating := &lumberjack.Logger{
        Filename:   cfg.File,
        MaxSize:    cfg.MaxSizeMB,
        MaxBackups: cfg.MaxBackups,
        MaxAge:     cfg.MaxAgeDays,
        LocalTime:  true,
    }
    logger.SetOutput(rotating)
    return logger, rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
