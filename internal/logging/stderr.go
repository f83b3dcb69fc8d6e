//go:build !windows

package logging

import (
	"bufio"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
)

// CaptureStderr redirects file descriptor 2 into the log. Audio libraries
// (ALSA through the speaker) write there directly, which would corrupt the
// terminal UI. The returned function restores the original stderr.
// It must be called after Setup, so that log output itself does not go to
// stderr, and before the audio device is initialized.
func CaptureStderr() (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		forwardLines(r, logrus.WithField("stream", "stderr"))
	}()

	return func() {
		_ = syscall.Dup2(orig, int(os.Stderr.Fd()))
		_ = syscall.Close(orig)
		w.Close()
		<-done
		r.Close()
	}, nil
}

// forwardLines logs every non-blank line read from r until EOF.
func forwardLines(r io.Reader, entry *logrus.Entry) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entry.Warn(line)
		}
	}
}
