//go:build windows

package logging

// CaptureStderr is a no-op on Windows: its audio stack does not write to stderr.
func CaptureStderr() (restore func(), err error) {
	return func() {}, nil
}
