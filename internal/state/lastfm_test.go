package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestLastfmSession_NotLinked(t *testing.T) {
	s := setupTestStore(t)

	session, err := s.LastfmSession()
	if err != nil {
		t.Fatalf("LastfmSession failed: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session, got %+v", session)
	}
}

func TestLastfmSession_SaveReplaceDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveLastfmSession("alice", "key-1"); err != nil {
		t.Fatalf("SaveLastfmSession failed: %v", err)
	}
	if err := s.SaveLastfmSession("bob", "key-2"); err != nil {
		t.Fatalf("SaveLastfmSession (replace) failed: %v", err)
	}

	session, err := s.LastfmSession()
	if err != nil {
		t.Fatalf("LastfmSession failed: %v", err)
	}
	if session == nil {
		t.Fatal("expected a session")
	}
	if session.Username != "bob" || session.SessionKey != "key-2" {
		t.Errorf("session = %+v, want bob/key-2", session)
	}
	if time.Since(session.LinkedAt) > time.Minute {
		t.Errorf("LinkedAt = %v, want recent", session.LinkedAt)
	}

	if err := s.DeleteLastfmSession(); err != nil {
		t.Fatalf("DeleteLastfmSession failed: %v", err)
	}
	session, err = s.LastfmSession()
	if err != nil {
		t.Fatalf("LastfmSession failed: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session after delete, got %+v", session)
	}
}

func TestPendingScrobbles(t *testing.T) {
	s := setupTestStore(t)
	played := time.Unix(1_700_000_000, 0)

	err := s.AddPendingScrobble(PendingScrobble{
		Artist:       "Band",
		Track:        "Later",
		DurationSecs: 200,
		Timestamp:    played.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}
	err = s.AddPendingScrobble(PendingScrobble{
		Artist:      "Band",
		Track:       "Earlier",
		Album:       "Record",
		AlbumArtist: "Various Artists",
		Timestamp:   played,
		LastError:   "timeout",
	})
	if err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}

	pending, err := s.PendingScrobbles()
	if err != nil {
		t.Fatalf("PendingScrobbles failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	first := pending[0]
	if first.Track != "Earlier" || first.Album != "Record" || !first.Timestamp.Equal(played) {
		t.Errorf("first = %+v, want Earlier/Record at %v", first, played)
	}
	if first.AlbumArtist != "Various Artists" {
		t.Errorf("AlbumArtist = %q, want Various Artists", first.AlbumArtist)
	}
	if first.LastError != "timeout" {
		t.Errorf("LastError = %q, want timeout", first.LastError)
	}
	if pending[1].DurationSecs != 200 || pending[1].Album != "" || pending[1].AlbumArtist != "" {
		t.Errorf("second = %+v, want 200s and no album", pending[1])
	}

	if err := s.UpdatePendingScrobbleAttempt(first.ID, "still down"); err != nil {
		t.Fatalf("UpdatePendingScrobbleAttempt failed: %v", err)
	}
	if err := s.DeletePendingScrobble(pending[1].ID); err != nil {
		t.Fatalf("DeletePendingScrobble failed: %v", err)
	}

	pending, err = s.PendingScrobbles()
	if err != nil {
		t.Fatalf("PendingScrobbles failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}
	if pending[0].Attempts != 1 || pending[0].LastError != "still down" {
		t.Errorf("pending = %+v, want 1 attempt with last error", pending[0])
	}
}

func TestDeleteOldPendingScrobbles(t *testing.T) {
	s := setupTestStore(t)

	if err := s.AddPendingScrobble(PendingScrobble{Artist: "A", Track: "T", Timestamp: time.Now()}); err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}
	if _, err := s.DB().Exec(`UPDATE lastfm_pending_scrobbles SET created_at = ?`,
		time.Now().Add(-30*24*time.Hour).Unix()); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	if err := s.DeleteOldPendingScrobbles(14 * 24 * time.Hour); err != nil {
		t.Fatalf("DeleteOldPendingScrobbles failed: %v", err)
	}

	pending, err := s.PendingScrobbles()
	if err != nil {
		t.Fatalf("PendingScrobbles failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("len(pending) = %d, want 0", len(pending))
	}
}

func TestPendingScrobbles_OlderDatabaseGainsAlbumArtist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moosack.db")
	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = old.Exec(`
		CREATE TABLE lastfm_pending_scrobbles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			artist TEXT NOT NULL,
			track TEXT NOT NULL,
			album TEXT,
			duration_seconds INTEGER,
			timestamp INTEGER NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at INTEGER NOT NULL
		);
		INSERT INTO lastfm_pending_scrobbles (artist, track, timestamp, created_at)
		VALUES ('Band', 'Queued before', 1700000000, 1700000000);
	`)
	old.Close()
	if err != nil {
		t.Fatalf("create old table: %v", err)
	}

	s, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	defer s.Close()

	if err := s.AddPendingScrobble(PendingScrobble{
		Artist:      "Band",
		Track:       "Queued after",
		AlbumArtist: "Compilers",
		Timestamp:   time.Unix(1_700_000_100, 0),
	}); err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}

	pending, err := s.PendingScrobbles()
	if err != nil {
		t.Fatalf("PendingScrobbles failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	if pending[0].AlbumArtist != "" || pending[1].AlbumArtist != "Compilers" {
		t.Errorf("album artists = %q, %q; want empty then Compilers", pending[0].AlbumArtist, pending[1].AlbumArtist)
	}
}
