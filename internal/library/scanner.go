package library

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/db"
	"github.com/llehouerou/moosack/internal/tags"
)

const numWorkers = 8

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase   string // "scanning", "processing", "cleaning", "done"
	Current int
	Total   int
	Stats   *ScanStats // Only populated when Phase == "done"
}

// ScanStats counts what a completed scan changed.
type ScanStats struct {
	Added   int
	Updated int
	Removed int
}

// fileInfo holds information about a discovered music file.
type fileInfo struct {
	path  string
	mtime int64
}

// Refresh scans dirs and brings the index up to date: new and modified files
// are (re)read, files that disappeared are removed. Tracks outside dirs are
// left alone. progress is closed when Refresh returns; it may be nil.
func (l *Library) Refresh(dirs []string, progress chan<- ScanProgress) error {
	if progress != nil {
		defer close(progress)
	}
	report := func(p ScanProgress) {
		if progress != nil {
			progress <- p
		}
	}

	report(ScanProgress{Phase: "scanning"})
	files := discoverFiles(dirs)

	existing, err := l.existingTracks(dirs)
	if err != nil {
		return err
	}

	stats := &ScanStats{}
	toProcess := make([]fileInfo, 0, len(files))
	for _, f := range files {
		if mtime, ok := existing[f.path]; ok && mtime == f.mtime {
			continue // unchanged
		}
		toProcess = append(toProcess, f)
	}

	if len(toProcess) > 0 {
		if err := l.processFiles(toProcess, existing, stats, report); err != nil {
			return err
		}
	}

	report(ScanProgress{Phase: "cleaning"})
	discovered := make(map[string]struct{}, len(files))
	for _, f := range files {
		discovered[f.path] = struct{}{}
	}
	var removed []string
	for path := range existing {
		if _, ok := discovered[path]; !ok {
			removed = append(removed, path)
		}
	}
	if err := l.deleteTracks(removed); err != nil {
		return err
	}
	stats.Removed = len(removed)

	logrus.Infof("Library scan: %d files, %d added, %d updated, %d removed",
		len(files), stats.Added, stats.Updated, stats.Removed)
	report(ScanProgress{Phase: "done", Current: len(files), Total: len(files), Stats: stats})
	return nil
}

// discoverFiles walks dirs and returns every music file found, in lexical order per directory.
func discoverFiles(dirs []string) []fileInfo {
	var files []fileInfo
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				logrus.WithField("path", path).Debugf("scan: %v", walkErr)
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() || !IsMusic(path) {
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			files = append(files, fileInfo{path: path, mtime: info.ModTime().Unix()})
			return nil
		})
	}
	return files
}

type trackResult struct {
	file fileInfo
	tag  *tags.Tag
}

// processFiles reads tags in parallel and upserts the results in one transaction.
func (l *Library) processFiles(
	files []fileInfo,
	existing map[string]int64,
	stats *ScanStats,
	report func(ScanProgress),
) error {
	total := len(files)
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan trackResult, total)
	for _, f := range files {
		workCh <- f
	}
	close(workCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for f := range workCh {
				tag, err := tags.Read(f.path)
				if err != nil {
					// Unreadable metadata still leaves a playable file.
					tag = &tags.Tag{Path: f.path, Title: filepath.Base(f.path)}
				}
				resultCh <- trackResult{file: f, tag: tag}
				processed.Add(1)
			}
		})
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report(ScanProgress{Phase: "processing", Current: int(processed.Load()), Total: total})
			case <-done:
				return
			}
		}
	}()

	wg.Wait()
	close(resultCh)
	close(done)
	<-stopped

	// Collect results and write sequentially to avoid SQLite contention.
	err := db.WithTx(l.db, func(tx *sql.Tx) error {
		for r := range resultCh {
			if err := upsertTrack(tx, r.file, r.tag); err != nil {
				return err
			}
			if _, ok := existing[r.file.path]; ok {
				stats.Updated++
			} else {
				stats.Added++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	report(ScanProgress{Phase: "processing", Current: total, Total: total})
	return nil
}

// existingTracks returns path -> mtime for indexed tracks under dirs.
func (l *Library) existingTracks(dirs []string) (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT path, mtime FROM library_tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		for _, dir := range dirs {
			if isUnder(dir, path) {
				tracks[path] = mtime
				break
			}
		}
	}
	return tracks, rows.Err()
}

func upsertTrack(tx *sql.Tx, f fileInfo, t *tags.Tag) error {
	now := time.Now().Unix()
	_, err := tx.Exec(`
		INSERT INTO library_tracks (path, mtime, title, artist, album_artist, album, track_number, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime = excluded.mtime,
			title = excluded.title,
			artist = excluded.artist,
			album_artist = excluded.album_artist,
			album = excluded.album,
			track_number = excluded.track_number,
			updated_at = excluded.updated_at
	`, f.path, f.mtime, t.Title,
		db.NullString(t.Artist), db.NullString(t.AlbumArtist), db.NullString(t.Album),
		db.NullInt64(int64(t.TrackNumber)), f.mtime, now)
	return err
}

func (l *Library) deleteTracks(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return db.WithTx(l.db, func(tx *sql.Tx) error {
		for _, path := range paths {
			if _, err := tx.Exec(`DELETE FROM library_tracks WHERE path = ?`, path); err != nil {
				return err
			}
		}
		return nil
	})
}

// isUnder reports whether path is dir itself or inside it.
func isUnder(dir, path string) bool {
	dir = filepath.Clean(dir)
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
