//go:build !linux

package notify

// New returns a notifier that does nothing on platforms without D-Bus.
func New() (Notifier, error) {
	return nopNotifier{}, nil
}
