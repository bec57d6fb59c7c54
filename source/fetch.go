package source

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Fetcher returns the raw byte stream of the document at location,
// a slash separated path relative to the repository root.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// FS is a Fetcher reading documents from a file system.
type FS struct {
	FS fs.FS
}

// Dir returns a Fetcher reading documents below the directory root.
func Dir(root string) FS { return FS{FS: os.DirFS(root)} }

func (f FS) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(location, "/")
	if !fs.ValidPath(name) {
		return nil, errors.Errorf("location %q is outside the repository", location)
	}
	return f.FS.Open(name)
}

// HTTP is a Fetcher reading documents from a web server.
type HTTP struct {
	// Base is the repository root URL.
	Base *url.URL
	// Client is the HTTP client used. http.DefaultClient is used when
	// nil.
	Client *http.Client
	// UserAgent, if set, is sent with each request.
	UserAgent string
}

// NewHTTP returns an HTTP Fetcher for the repository at base.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "repository url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("repository url %q: unsupported scheme %q", base, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTP{Base: u, Client: client}, nil
}

func (h *HTTP) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	ref, err := url.Parse(strings.TrimPrefix(location, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "location %q", location)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, errors.Errorf("location %q is outside the repository", location)
	}
	u := h.Base.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	glog.V(2).Infof("GET %s", u)
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, errors.Wrapf(fs.ErrNotExist, "GET %s: %s", u, resp.Status)
	default:
		resp.Body.Close()
		return nil, errors.Errorf("GET %s: %s", u, resp.Status)
	}
}

// NewFetcher returns an HTTP Fetcher when repository is an http or
// https URL, and a directory Fetcher otherwise.
func NewFetcher(repository string, client *http.Client) (Fetcher, error) {
	if strings.HasPrefix(repository, "http://") || strings.HasPrefix(repository, "https://") {
		h, err := NewHTTP(repository, client)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	root := strings.TrimPrefix(repository, "file://")
	st, err := os.Stat(root)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !st.IsDir() {
		return nil, errors.Errorf("repository %q is not a directory", repository)
	}
	return Dir(root), nil
}
