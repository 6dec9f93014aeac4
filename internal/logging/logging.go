// Package logging configures the process-wide gommon logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = "${time_rfc3339} ${level} ${short_file}:${line}"

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func ParseLevel(level string) (log.Lvl, bool) {
	lvl, ok := levels[level]
	return lvl, ok
}

// Setup points the global logger at stderr and, when dir is non-empty, a
// rotated log file inside dir. The returned closer flushes the file.
func Setup(level string, dir string) (io.Closer, error) {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl = log.INFO
	}
	log.SetLevel(lvl)
	log.SetHeader(header)

	if dir == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "atc-tower.log"),
		MaxSize:    32, // MB
		MaxBackups: 3,
		MaxAge:     14,
	}
	if lvl == log.DEBUG {
		w.MaxSize = 256
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	log.Infof("logging to %s", w.Filename)
	return w, nil
}
