// Package whc opens the World Heritage List XML feed, either from a local
// file or over HTTP.
package whc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultURL is where the UNESCO World Heritage Centre publishes the list.
const DefaultURL = "http://whc.unesco.org/en/list/xml/"

var ErrFetch = errors.New("whc fetch error")

type Source struct {
	httpClient *http.Client
	userAgent  string
}

func NewSource(userAgent string) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		userAgent: userAgent,
	}
}

// WithHTTPClient replaces the client used for remote locations.
func (s *Source) WithHTTPClient(hc *http.Client) *Source {
	s.httpClient = hc
	return s
}

// Open returns a reader over the feed at location. An empty location means
// DefaultURL; http and https locations are fetched, anything else is a path.
func (s *Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		location = DefaultURL
	}
	if !isRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrFetch, resp.StatusCode)
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
