package network

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidDataURL is returned for malformed data: URLs.
var ErrInvalidDataURL = errors.New("network: invalid data URL")

// IsDataURL reports whether location is a data: URL.
func IsDataURL(location string) bool {
	return len(location) >= 5 && strings.EqualFold(location[:5], "data:")
}

// IsHTTPURL reports whether location is an absolute http or https URL.
func IsHTTPURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ResolveURL resolves ref against base.
func ResolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "parse base %q", base)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", ref)
	}
	return b.ResolveReference(r).String(), nil
}

// DataURL is a decoded data: URL.
type DataURL struct {
	MediaType string
	Charset   string
	Data      []byte
}

// ParseDataURL decodes data:[<mediatype>][;charset=x][;base64],<data>.
func ParseDataURL(location string) (*DataURL, error) {
	if !IsDataURL(location) {
		return nil, errors.Wrap(ErrInvalidDataURL, "missing data: scheme")
	}
	meta, data, ok := strings.Cut(location[5:], ",")
	if !ok {
		return nil, errors.Wrap(ErrInvalidDataURL, "missing comma")
	}

	d := &DataURL{MediaType: "text/plain"}
	isBase64 := false
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.EqualFold(part, "base64"):
			isBase64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			d.Charset = strings.ToLower(part[len("charset="):])
		case i == 0 && part != "":
			d.MediaType = strings.ToLower(part)
		}
	}

	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidDataURL, err.Error())
		}
		d.Data = decoded
		return d, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDataURL, err.Error())
	}
	d.Data = []byte(decoded)
	return d, nil
}
