package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/daryltucker/ruversi-tools/internal/output"
)

// Outcome tells the dispatcher what a download call did.
type Outcome int

const (
	// OutcomeRejected: the name failed the prefix filter; nothing was touched.
	OutcomeRejected Outcome = iota
	// OutcomeExists: the archive was already on disk; no request was made.
	OutcomeExists
	// OutcomeDownloaded: the archive was fetched and written.
	OutcomeDownloaded
	// OutcomeFailed: the transfer failed; the error says why.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeExists:
		return "exists"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Downloader stores archives under dir, one file per artifact.
type Downloader struct {
	client *http.Client
	token  string
	dir    string
	prefix string
}

// NewDownloader creates a Downloader. A nil client means http.DefaultClient.
func NewDownloader(client *http.Client, token, dir, prefix string) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client, token: token, dir: dir, prefix: prefix}
}

// Download fetches url into <dir>/<name> unless the name is filtered out or
// the file already exists. Failures come back as OutcomeFailed with the
// error and are never retried.
func (d *Downloader) Download(ctx context.Context, url, name string) (Outcome, error) {
	if !strings.HasPrefix(name, d.prefix) {
		return OutcomeRejected, nil
	}

	path := filepath.Join(d.dir, name)
	if _, err := os.Stat(path); err == nil {
		output.Logger.Info("Already downloaded, skipping", "file", name)
		return OutcomeExists, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return OutcomeFailed, fmt.Errorf("create archive dir: %w", err)
	}

	output.Logger.Info("Downloading", "file", name, "dir", d.dir)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req, d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return OutcomeFailed, fmt.Errorf("download %s: %s: %s", name, resp.Status, strings.TrimSpace(string(body)))
	}

	// Write next to the target and rename, so an interrupted transfer never
	// leaves a file that the existence check would accept.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(name)+".part*")
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return OutcomeFailed, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return OutcomeFailed, fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return OutcomeFailed, fmt.Errorf("rename %s: %w", name, err)
	}
	return OutcomeDownloaded, nil
}
