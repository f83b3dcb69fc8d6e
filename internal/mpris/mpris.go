//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/source"
	"github.com/llehouerou/moosack/internal/tags"
)

// Adapter connects the playback Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("moosack", &rootAdapter{}, &playerAdapter{service: service}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.WithError(err).Warn("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Moosack", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error {
	return p.service.Skip()
}

func (p *playerAdapter) Previous() error {
	return nil // No history is kept
}

func (p *playerAdapter) Pause() error {
	return p.service.Pause()
}

func (p *playerAdapter) PlayPause() error {
	return p.service.TogglePlaying()
}

func (p *playerAdapter) Stop() error {
	return p.service.Stop()
}

func (p *playerAdapter) Play() error {
	return p.service.Play()
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

// OpenUri queues uri, which starts playing it when nothing else is.
//
//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	return p.service.Queue(source.Parse(uri))
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.Playing:
		return types.PlaybackStatusPlaying, nil
	case playback.Paused:
		return types.PlaybackStatusPaused, nil
	case playback.Idle, playback.Ended:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	item, ok := p.current()
	if !ok {
		return types.Metadata{}, nil
	}

	tag := tags.ForSource(item.Source, item.Handle.Path())
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(item.Source)),
		Length:  types.Microseconds(item.Handle.Duration().Microseconds()),
		Title:   tag.Title,
		Album:   tag.Album,
	}
	if tag.Artist != "" {
		meta.Artist = []string{tag.Artist}
	}
	if tag.TrackNumber > 0 {
		meta.TrackNumber = tag.TrackNumber
	}
	if tag.Path != "" {
		if artPath := tags.CoverArtPath(tag.Path); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

// Position converts the played fraction into microseconds of the current item.
func (p *playerAdapter) Position() (int64, error) {
	var pos time.Duration
	_ = p.service.Do(func(pl *playback.Player) error {
		item, ok := pl.CurrentItem()
		if !ok {
			return nil
		}
		if frac, ok := pl.Position(); ok {
			pos = time.Duration(frac * float64(item.Handle.Duration()))
		}
		return nil
	})
	return pos.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	_, playing := p.service.Current()
	return playing || p.service.QueueLength() > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	_, playing := p.service.Current()
	return playing || p.service.QueueLength() > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func (p *playerAdapter) current() (playback.LoadedItem, bool) {
	var item playback.LoadedItem
	var ok bool
	_ = p.service.Do(func(pl *playback.Player) error {
		item, ok = pl.CurrentItem()
		return nil
	})
	return item, ok
}

func formatTrackID(src source.Source) string {
	h := fnv.New64a()
	h.Write([]byte(src.Normalize().String()))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
