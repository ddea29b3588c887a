// control/logging.go
// Author: momentics <momentics@gmail.com>
//
// logrus logger construction from LogConfig.

package control

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ParseLevel maps a config level name onto logrus; empty means info.
func ParseLevel(level string) (logrus.Level, error) {
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds a logger writing to out with the configured level and format.
func NewLogger(cfg LogConfig, out io.Writer) (*logrus.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("log.format: unknown formatter %q", cfg.Format)
	}
	return l, nil
}

// DiscardLogger is a silent logger for library defaults.
func DiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	return l
}
