package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/daryltucker/ruversi-tools/internal/config"
	"github.com/daryltucker/ruversi-tools/internal/model"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

// Log line patterns. WriteEntry and the dispatcher must agree on them.
var (
	// "name": "kifu-N9_20220720154803",
	nameLineRe = regexp.MustCompile(`name": "(.+)",`)
	// "archive_download_url": "https://api.github.com/repos/OWNER/REPO/actions/artifacts/ID/zip",
	urlLineRe = regexp.MustCompile(`archive_download_url": "(http.+zip)`)
)

// WriteEntry appends the two log lines describing one artifact.
func WriteEntry(w io.Writer, a model.Artifact) error {
	_, err := fmt.Fprintf(w, "  \"name\": \"%s\",\n  \"archive_download_url\": \"%s\",\n", a.Name, a.DownloadURL)
	return err
}

// ListError reports a listing page the provider refused.
type ListError struct {
	Page       int
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *ListError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("failed to fetch page %d: %d %s: %s", e.Page, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *ListError) Unwrap() error { return e.Err }

// Lister pages through a repository's artifact listing.
type Lister struct {
	client   *github.Client
	owner    string
	repo     string
	perPage  int
	maxPages int
}

// NewLister creates a Lister on top of httpClient (see NewAPIClient).
func NewLister(httpClient *http.Client, cfg config.ArtifactConfig) (*Lister, error) {
	client := github.NewClient(httpClient)
	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = u
	}

	return &Lister{
		client:   client,
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		perPage:  cfg.PerPage,
		maxPages: cfg.MaxPages,
	}, nil
}

// List fetches up to maxPages pages and writes every artifact to w. It stops
// early on an empty page and aborts on the first failed page. It returns the
// number of pages fetched successfully.
func (l *Lister) List(ctx context.Context, w io.Writer) (int, error) {
	fetched := 0
	for page := 1; page <= l.maxPages; page++ {
		list, resp, err := l.client.Actions.ListArtifacts(ctx, l.owner, l.repo, &github.ListOptions{
			Page:    page,
			PerPage: l.perPage,
		})
		if err != nil {
			return fetched, newListError(page, resp, err)
		}
		fetched++

		output.Logger.Info("Fetched artifact page", "page", page, "artifacts", len(list.Artifacts))
		if len(list.Artifacts) == 0 {
			break
		}

		for _, a := range list.Artifacts {
			entry := model.Artifact{Name: a.GetName(), DownloadURL: a.GetArchiveDownloadURL()}
			if err := WriteEntry(w, entry); err != nil {
				return fetched, fmt.Errorf("write artifact log: %w", err)
			}
		}
	}
	return fetched, nil
}

// maxErrorBody caps how much of a refused page's body is kept.
const maxErrorBody = 4096

func newListError(page int, resp *github.Response, err error) *ListError {
	le := &ListError{Page: page, Err: err}
	if resp != nil && resp.Response != nil {
		le.StatusCode = resp.StatusCode
		// go-github restores the body after decoding it, whatever its format.
		if resp.Body != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			le.Body = strings.TrimSpace(string(body))
		}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response != nil {
			le.StatusCode = ghErr.Response.StatusCode
		}
		if le.Body == "" {
			le.Body = ghErr.Message
		}
	}
	return le
}
