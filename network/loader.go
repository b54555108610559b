package network

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Resource is a loaded page or script.
type Resource struct {
	Location    string // absolute URL or file path it was loaded from
	ContentType string
	Content     []byte
}

// Reader returns the content decoded to UTF-8, honoring the charset of
// ContentType, a byte order mark, or a <meta charset> in HTML.
func (r *Resource) Reader() (io.Reader, error) {
	rd, err := charset.NewReader(bytes.NewReader(r.Content), r.ContentType)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", r.Location)
	}
	return rd, nil
}

// Text returns the content decoded to UTF-8.
func (r *Resource) Text() (string, error) {
	rd, err := r.Reader()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", r.Location)
	}
	return string(data), nil
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger.Named("network")
		}
	}
}

// Loader loads resources from data: URLs, http(s) URLs, file: URLs and
// plain paths. Relative locations resolve against the loader's base.
type Loader struct {
	client *Client
	logger *zap.Logger
	base   string
}

// NewLoader creates a loader. A nil client only serves local and data:
// locations.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithBase returns a loader resolving relative locations against base,
// which is usually the location of the page being loaded.
func (l *Loader) WithBase(base string) *Loader {
	return &Loader{client: l.client, logger: l.logger, base: base}
}

// Base returns the base location.
func (l *Loader) Base() string { return l.base }

// Resolve turns location into an absolute URL or file path.
func (l *Loader) Resolve(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errors.New("empty location")
	}
	if IsDataURL(location) || IsHTTPURL(location) || strings.HasPrefix(location, "file:") {
		return location, nil
	}
	if IsHTTPURL(l.base) {
		return ResolveURL(l.base, location)
	}
	if filepath.IsAbs(location) || l.base == "" {
		return location, nil
	}
	return filepath.Join(filepath.Dir(l.base), location), nil
}

// Load resolves and reads location.
func (l *Loader) Load(ctx context.Context, location string) (*Resource, error) {
	resolved, err := l.Resolve(location)
	if err != nil {
		return nil, err
	}

	switch {
	case IsDataURL(resolved):
		d, err := ParseDataURL(resolved)
		if err != nil {
			return nil, err
		}
		contentType := d.MediaType
		if d.Charset != "" {
			contentType += "; charset=" + d.Charset
		}
		return &Resource{Location: "data:", ContentType: contentType, Content: d.Data}, nil

	case IsHTTPURL(resolved):
		if l.client == nil {
			return nil, errors.Errorf("load %s: no HTTP client", resolved)
		}
		resp, err := l.client.Get(ctx, resolved)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("fetched",
			zap.String("url", resp.URL),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(resp.Body)),
		)
		return &Resource{Location: resp.URL, ContentType: resp.ContentType, Content: resp.Body}, nil
	}

	path := resolved
	if strings.HasPrefix(resolved, "file:") {
		u, err := url.Parse(resolved)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q", resolved)
		}
		path = u.Path
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	l.logger.Debug("read file", zap.String("path", path), zap.Int("bytes", len(content)))
	return &Resource{Location: path, ContentType: contentTypeFor(path), Content: content}, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".js", ".mjs":
		return "text/javascript"
	}
	return ""
}
