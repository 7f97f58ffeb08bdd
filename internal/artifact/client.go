/*
PURPOSE:
  HTTP plumbing for the CI provider: an authenticated GitHub client for the
  artifact listing and the shared header conventions for archive downloads.

REQUIREMENTS:
  User-specified:
  - Accept: application/vnd.github+json on every request.
  - Authorization: token <t> only when a token was given.

  Implementation-discovered:
  - Archive URLs redirect to blob storage. Download requests set the token
    header themselves so net/http drops it on the cross-host redirect; the
    oauth2 transport would re-add it to every hop.

ARCHITECTURE INTEGRATION:
  - Used by: internal/artifact/lister.go, internal/artifact/download.go
  - Dependencies: github.com/google/go-github/v57, golang.org/x/oauth2

ERROR HANDLING:
  - None here; callers inspect responses.
*/

package artifact

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

const acceptGitHubJSON = "application/vnd.github+json"

// acceptTransport pins the Accept header go-github would otherwise set to
// its v3 media type.
type acceptTransport struct {
	base http.RoundTripper
}

func (t *acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", acceptGitHubJSON)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewAPIClient returns the client used for provider API calls. An empty
// token yields an anonymous client.
func NewAPIClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return &http.Client{Transport: &acceptTransport{}}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "token", // sent as "Authorization: token <t>"
	})
	c := oauth2.NewClient(ctx, ts)
	c.Transport = &acceptTransport{base: c.Transport}
	return c
}

// setHeaders applies the provider headers to a download request.
func setHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", acceptGitHubJSON)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
}
