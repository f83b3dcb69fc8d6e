package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/moosack/internal/db"
)

// FetchedFile is the local copy of a remote source.
type FetchedFile struct {
	URL         string
	Path        string
	Size        int64
	ContentType string
	FetchedAt   time.Time
	LastUsedAt  time.Time
}

// LookupFetched returns the recorded local copy of url, or nil if none.
// A hit refreshes its last-used time.
func (s *Store) LookupFetched(url string) (*FetchedFile, error) {
	var (
		f           FetchedFile
		size        sql.NullInt64
		contentType sql.NullString
		fetchedAt   int64
		lastUsedAt  int64
	)
	err := s.db.QueryRow(`
		SELECT url, path, size, content_type, fetched_at, last_used_at
		FROM fetched_files WHERE url = ?
	`, url).Scan(&f.URL, &f.Path, &size, &contentType, &fetchedAt, &lastUsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Size = db.NullInt64Value(size)
	f.ContentType = db.NullStringValue(contentType)
	f.FetchedAt = time.Unix(fetchedAt, 0)

	now := time.Now()
	if _, err := s.db.Exec(`UPDATE fetched_files SET last_used_at = ? WHERE url = ?`, now.Unix(), url); err != nil {
		return nil, err
	}
	f.LastUsedAt = time.Unix(now.Unix(), 0)
	return &f, nil
}

// RecordFetched stores or replaces the local copy of f.URL.
func (s *Store) RecordFetched(f FetchedFile) error {
	now := time.Now().Unix()
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM fetched_files WHERE url = ?`, f.URL); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO fetched_files (url, path, size, content_type, fetched_at, last_used_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, f.URL, f.Path, db.NullInt64(f.Size), db.NullString(f.ContentType), now, now)
		return err
	})
}

// ForgetFetched removes the record for url.
func (s *Store) ForgetFetched(url string) error {
	_, err := s.db.Exec(`DELETE FROM fetched_files WHERE url = ?`, url)
	return err
}

// CountFetched returns the number of recorded local copies.
func (s *Store) CountFetched() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM fetched_files`).Scan(&n)
	return n, err
}
