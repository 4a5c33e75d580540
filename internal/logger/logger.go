package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	WarnLogger  = newLogger(os.Stdout, logrus.WarnLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

// Options configures the shared loggers.
type Options struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	return l
}

// Init points every logger at its console stream plus a rotated log file.
func Init(opts Options) {
	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}

	var file io.Writer
	if path := strings.TrimSpace(opts.File); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
	}

	InfoLogger = newLogger(tee(os.Stdout, file), level)
	WarnLogger = newLogger(tee(os.Stdout, file), stricter(level, logrus.WarnLevel))
	ErrorLogger = newLogger(tee(os.Stderr, file), stricter(level, logrus.ErrorLevel))
}

func tee(console io.Writer, file io.Writer) io.Writer {
	if file == nil {
		return console
	}
	return io.MultiWriter(console, file)
}

// stricter keeps the more restrictive of the two levels.
func stricter(a, b logrus.Level) logrus.Level {
	if a < b {
		return a
	}
	return b
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
