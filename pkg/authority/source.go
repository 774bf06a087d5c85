package authority

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Opener opens a harvest source location as a byte stream
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// SourceOpener opens local paths, file:// URLs and http(s):// URLs
type SourceOpener struct {
	Client *http.Client
}

// NewSourceOpener creates a SourceOpener whose HTTP fetches time out after timeout
func NewSourceOpener(timeout time.Duration) *SourceOpener {
	return &SourceOpener{Client: &http.Client{Timeout: timeout}}
}

// Open returns a reader for location. The caller closes it.
func (o *SourceOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (a one-letter scheme is a Windows drive)
		return os.Open(location)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		return o.get(ctx, location)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

func (o *SourceOpener) get(ctx context.Context, location string) (io.ReadCloser, error) {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", location, resp.Status)
	}
	return resp.Body, nil
}
