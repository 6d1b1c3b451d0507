// Package artwork downloads poster, fanart, and episode-still images to
// destinations chosen by the orchestrator. It only fetches bytes; deciding
// when a download is wanted is the caller's concern.
package artwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	oplog "github.com/showtidy/showtidy/internal/log"
)

// Doer is the subset of *http.Client the downloader needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader fetches remote images onto the injected filesystem. Under
// simulate mode it performs no network or filesystem activity at all.
type Downloader struct {
	fs      afero.Fs
	http    Doer
	dryRun  bool
	force   bool
	session *oplog.Session
	log     zerolog.Logger
}

// NewDownloader creates a Downloader. httpClient and session may be nil.
func NewDownloader(fs afero.Fs, httpClient Doer, dryRun, force bool, session *oplog.Session, log zerolog.Logger) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{fs: fs, http: httpClient, dryRun: dryRun, force: force, session: session, log: log}
}

// Download fetches url into dest. An existing destination is kept unless
// force is set; an empty url is a silent no-op.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	if url == "" {
		return nil
	}
	if d.dryRun {
		d.log.Info().Str("url", url).Str("dest", dest).Msg("dry run: would download artwork")
		return nil
	}
	if ok, _ := afero.Exists(d.fs, dest); ok && !d.force {
		d.log.Debug().Str("dest", dest).Msg("artwork exists, skipping download")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build artwork request: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		d.session.Record(oplog.OpDownload, url, dest, false, false, err)
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
		d.session.Record(oplog.OpDownload, url, dest, false, false, err)
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		d.session.Record(oplog.OpDownload, url, dest, false, false, err)
		return fmt.Errorf("read artwork body: %w", err)
	}
	if err := d.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		d.session.Record(oplog.OpDownload, url, dest, false, false, err)
		return fmt.Errorf("create artwork directory: %w", err)
	}
	if err := afero.WriteFile(d.fs, dest, data, 0644); err != nil {
		d.session.Record(oplog.OpDownload, url, dest, false, false, err)
		return fmt.Errorf("write %s: %w", dest, err)
	}

	d.session.Record(oplog.OpDownload, url, dest, true, false, nil)
	return nil
}
