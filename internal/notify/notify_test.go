package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/moosack/internal/tags"
)

func TestUrgencyValues(t *testing.T) {
	// Verify urgency constants match D-Bus spec
	if UrgencyLow != 0 {
		t.Errorf("UrgencyLow = %d, want 0", UrgencyLow)
	}
	if UrgencyNormal != 1 {
		t.Errorf("UrgencyNormal = %d, want 1", UrgencyNormal)
	}
	if UrgencyCritical != 2 {
		t.Errorf("UrgencyCritical = %d, want 2", UrgencyCritical)
	}
}

func TestNotificationZeroValue(t *testing.T) {
	var n Notification
	if n.Urgency != UrgencyLow {
		t.Errorf("zero value Urgency = %d, want UrgencyLow (0)", n.Urgency)
	}
	if n.Timeout != 0 {
		t.Error("zero value Timeout should be 0 (never expire)")
	}
	if n.ReplacesID != 0 {
		t.Error("zero value ReplacesID should be 0 (new notification)")
	}
}

type recordingNotifier struct {
	sent   []Notification
	closed []uint32
	nextID uint32
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	r.sent = append(r.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	r.nextID++
	return r.nextID, nil
}

func (r *recordingNotifier) Close(id uint32) error {
	r.closed = append(r.closed, id)
	return nil
}

func TestTrackNotification(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "folder.png")
	require.NoError(t, os.WriteFile(cover, []byte("img"), 0o600))

	n := TrackNotification(&tags.Tag{
		Path:   filepath.Join(dir, "01.flac"),
		Title:  "Song",
		Artist: "Artist",
		Album:  "Album",
	})

	assert.Equal(t, "Song", n.Title)
	assert.Equal(t, "Artist - Album", n.Body)
	assert.Equal(t, cover, n.Icon)
	assert.Equal(t, UrgencyLow, n.Urgency)

	n = TrackNotification(&tags.Tag{Title: "stream.ogg"})
	assert.Empty(t, n.Body)
	assert.Empty(t, n.Icon, "remote sources have no cover")
}

func TestNowPlaying_ReplacesPreviousNotification(t *testing.T) {
	rec := &recordingNotifier{}
	np := NewNowPlaying(rec)

	require.NoError(t, np.Show(&tags.Tag{Title: "One"}))
	require.NoError(t, np.Show(&tags.Tag{Title: "Two"}))

	require.Len(t, rec.sent, 2)
	assert.Equal(t, uint32(0), rec.sent[0].ReplacesID)
	assert.Equal(t, uint32(1), rec.sent[1].ReplacesID)

	require.NoError(t, np.Hide())
	require.NoError(t, np.Hide())
	assert.Equal(t, []uint32{1}, rec.closed)
}
