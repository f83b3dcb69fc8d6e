// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"strings"

	"github.com/llehouerou/moosack/internal/tags"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// trackTimeout is how long a now-playing notification stays up, in ms.
const trackTimeout = 5000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)

	// Close closes a notification by ID.
	Close(id uint32) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (nopNotifier) Close(uint32) error { return nil }

// TrackNotification describes a track that started playing.
func TrackNotification(t *tags.Tag) Notification {
	var body []string
	if t.Artist != "" {
		body = append(body, t.Artist)
	}
	if t.Album != "" {
		body = append(body, t.Album)
	}

	n := Notification{
		Title:   t.Title,
		Body:    strings.Join(body, " - "),
		Timeout: trackTimeout,
		Urgency: UrgencyLow,
	}
	if t.Path != "" {
		n.Icon = tags.CoverArtPath(t.Path)
	}
	return n
}

// NowPlaying keeps a single now-playing notification on screen, replacing it
// on every track change.
type NowPlaying struct {
	notifier Notifier
	lastID   uint32
}

// NewNowPlaying returns a NowPlaying sending through n.
func NewNowPlaying(n Notifier) *NowPlaying {
	return &NowPlaying{notifier: n}
}

// Show announces t.
func (np *NowPlaying) Show(t *tags.Tag) error {
	n := TrackNotification(t)
	n.ReplacesID = np.lastID
	id, err := np.notifier.Notify(n)
	if err != nil {
		return err
	}
	np.lastID = id
	return nil
}

// Hide closes the current notification, if any.
func (np *NowPlaying) Hide() error {
	if np.lastID == 0 {
		return nil
	}
	id := np.lastID
	np.lastID = 0
	return np.notifier.Close(id)
}
