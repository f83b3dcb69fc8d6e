package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/moosack/internal/db"
)

// LastfmSession represents a stored Last.fm session.
type LastfmSession struct {
	Username   string
	SessionKey string
	LinkedAt   time.Time
}

// PendingScrobble represents a scrobble queued for retry.
type PendingScrobble struct {
	ID           int64
	Artist       string
	Track        string
	Album        string
	AlbumArtist  string
	DurationSecs int
	Timestamp    time.Time
	Attempts     int
	LastError    string
	CreatedAt    time.Time
}

// LastfmSession returns the stored Last.fm session, or nil if not linked.
func (s *Store) LastfmSession() (*LastfmSession, error) {
	var username, sessionKey string
	var linkedAt int64

	err := s.db.QueryRow(`
		SELECT username, session_key, linked_at FROM lastfm_session WHERE id = 1
	`).Scan(&username, &sessionKey, &linkedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil session means not linked, not an error
	}
	if err != nil {
		return nil, err
	}

	return &LastfmSession{
		Username:   username,
		SessionKey: sessionKey,
		LinkedAt:   time.Unix(linkedAt, 0),
	}, nil
}

// SaveLastfmSession stores the Last.fm session after successful authentication.
func (s *Store) SaveLastfmSession(username, sessionKey string) error {
	_, err := s.db.Exec(`
		INSERT INTO lastfm_session (id, username, session_key, linked_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			session_key = excluded.session_key,
			linked_at = excluded.linked_at
	`, username, sessionKey, time.Now().Unix())
	return err
}

// DeleteLastfmSession removes the stored Last.fm session (unlink).
func (s *Store) DeleteLastfmSession() error {
	_, err := s.db.Exec(`DELETE FROM lastfm_session WHERE id = 1`)
	return err
}

// AddPendingScrobble queues a scrobble for later submission.
func (s *Store) AddPendingScrobble(p PendingScrobble) error {
	_, err := s.db.Exec(`
		INSERT INTO lastfm_pending_scrobbles
		(artist, track, album, album_artist, duration_seconds, timestamp, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, p.Artist, p.Track, db.NullString(p.Album), db.NullString(p.AlbumArtist), p.DurationSecs, p.Timestamp.Unix(),
		db.NullString(p.LastError), time.Now().Unix())
	return err
}

// PendingScrobbles returns all pending scrobbles, oldest play first.
func (s *Store) PendingScrobbles() ([]PendingScrobble, error) {
	rows, err := s.db.Query(`
		SELECT id, artist, track, album, album_artist, duration_seconds, timestamp, attempts, last_error, created_at
		FROM lastfm_pending_scrobbles
		ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrobbles []PendingScrobble
	for rows.Next() {
		var p PendingScrobble
		var album, albumArtist, lastError sql.NullString
		var duration sql.NullInt64
		var timestamp, createdAt int64

		err := rows.Scan(
			&p.ID, &p.Artist, &p.Track, &album, &albumArtist, &duration,
			&timestamp, &p.Attempts, &lastError, &createdAt,
		)
		if err != nil {
			return nil, err
		}

		p.Album = db.NullStringValue(album)
		p.AlbumArtist = db.NullStringValue(albumArtist)
		p.LastError = db.NullStringValue(lastError)
		p.DurationSecs = int(db.NullInt64Value(duration))
		p.Timestamp = time.Unix(timestamp, 0)
		p.CreatedAt = time.Unix(createdAt, 0)

		scrobbles = append(scrobbles, p)
	}

	return scrobbles, rows.Err()
}

// DeletePendingScrobble removes a successfully submitted scrobble.
func (s *Store) DeletePendingScrobble(id int64) error {
	_, err := s.db.Exec(`DELETE FROM lastfm_pending_scrobbles WHERE id = ?`, id)
	return err
}

// UpdatePendingScrobbleAttempt increments the attempt count and records the error.
func (s *Store) UpdatePendingScrobbleAttempt(id int64, errMsg string) error {
	_, err := s.db.Exec(`
		UPDATE lastfm_pending_scrobbles
		SET attempts = attempts + 1, last_error = ?
		WHERE id = ?
	`, errMsg, id)
	return err
}

// DeleteOldPendingScrobbles removes pending scrobbles queued longer than maxAge ago.
func (s *Store) DeleteOldPendingScrobbles(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).Unix()
	_, err := s.db.Exec(`DELETE FROM lastfm_pending_scrobbles WHERE created_at < ?`, cutoff)
	return err
}
