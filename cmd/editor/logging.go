package main

import (
	"fmt"
	"io"
	"os"

	"github.com/milk9111/tilemap/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger. level overrides cfg.Level when set.
// With a log file configured, output goes to both stderr and the rotated file.
func newLogger(cfg config.Log, level string) (*logrus.Logger, io.Closer, error) {
	if level == "" {
		level = cfg.Level
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("editor: parse log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.File == "" {
		return log, io.NopCloser(nil), nil
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	return log, rotated, nil
}
