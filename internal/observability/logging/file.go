package logging

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Output returns stdout, tee'd into a rotating file when a path is configured.
// The returned closer releases the file.
func Output(cfg FileConfig) (io.Writer, io.Closer) {
	if cfg.Path == "" {
		return os.Stdout, nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	return io.MultiWriter(os.Stdout, file), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
