package config

import (
	"io"

	"github.com/charmbracelet/log"
)

const defaultLogLevel = "info"

// NewLogger builds a timestamped logger writing to w. The level is read from
// LOG_LEVEL (debug, info, warn, error); unknown values fall back to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		level = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
