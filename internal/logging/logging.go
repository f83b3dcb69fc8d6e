// Package logging configures logrus for the application. The terminal belongs
// to the UI, so log output goes to a file under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

const logFile = "moosack/moosack.log"

// DefaultPath returns the log file path under the XDG state directory, creating its directory.
func DefaultPath() (string, error) {
	return xdg.StateFile(logFile)
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(level string) (logrus.Level, error) {
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}

// Setup sends the standard logger to path (appending) at the given level.
// The returned closer restores stderr output and closes the file.
func Setup(level, path string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	configure(logrus.StandardLogger(), f, lvl)
	logrus.Debugf("Logging at %s to %s", lvl, path)
	return &logCloser{file: f}, nil
}

func configure(l *logrus.Logger, w io.Writer, lvl logrus.Level) {
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
}

type logCloser struct {
	file *os.File
}

func (c *logCloser) Close() error {
	logrus.SetOutput(os.Stderr)
	return c.file.Close()
}
