package loader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/state"
)

const userAgent = "Moosack/0.1 (https://github.com/llehouerou/moosack)"

// contentTypeExt maps audio MIME types to the extension decoders are chosen by.
var contentTypeExt = map[string]string{
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
	"audio/ogg":    ".ogg",
	"audio/vorbis": ".ogg",
	"audio/wav":    ".wav",
	"audio/x-wav":  ".wav",
	"audio/wave":   ".wav",
}

// Index remembers local copies across sessions.
type Index interface {
	LookupFetched(url string) (*state.FetchedFile, error)
	RecordFetched(f state.FetchedFile) error
	ForgetFetched(url string) error
}

// HTTPFetcher downloads remote sources into a cache directory.
type HTTPFetcher struct {
	httpClient *http.Client
	dir        string
	index      Index
}

// NewHTTPFetcher creates a fetcher writing into dir. index may be nil.
func NewHTTPFetcher(dir string, index Index, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		dir:        dir,
		index:      index,
	}
}

// DefaultFetchDir returns the XDG cache directory for fetched sources.
func DefaultFetchDir() string {
	return filepath.Join(xdg.CacheHome, "moosack", "fetch")
}

// Fetch returns a local copy of rawURL, downloading it unless the index
// already knows a copy that still exists.
func (f *HTTPFetcher) Fetch(rawURL string) (string, error) {
	if p, ok := f.lookup(rawURL); ok {
		return p, nil
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", err
	}
	out, err := os.CreateTemp(f.dir, "fetch-*"+extensionFor(rawURL, contentType))
	if err != nil {
		return "", err
	}

	size, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("download: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"url":  rawURL,
		"size": humanize.Bytes(uint64(size)), //nolint:gosec // io.Copy never returns a negative count
	}).Info("fetched remote source")

	if f.index != nil {
		rec := state.FetchedFile{URL: rawURL, Path: out.Name(), Size: size, ContentType: contentType}
		if err := f.index.RecordFetched(rec); err != nil {
			logrus.Warnf("Unable to record fetched file: %v", err)
		}
	}
	return out.Name(), nil
}

func (f *HTTPFetcher) lookup(rawURL string) (string, bool) {
	if f.index == nil {
		return "", false
	}
	rec, err := f.index.LookupFetched(rawURL)
	if err != nil {
		logrus.Warnf("Unable to read fetch index: %v", err)
		return "", false
	}
	if rec == nil {
		return "", false
	}
	if _, err := os.Stat(rec.Path); err != nil {
		_ = f.index.ForgetFetched(rawURL)
		return "", false
	}
	logrus.WithField("url", rawURL).Debug("reusing fetched copy")
	return rec.Path, true
}

// extensionFor picks the extension of the local copy: the URL's own if it has
// one, else one derived from the response content type.
func extensionFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return strings.ToLower(ext)
		}
	}
	return contentTypeExt[strings.ToLower(contentType)]
}
