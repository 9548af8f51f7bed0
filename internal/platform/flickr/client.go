// Package flickr is a minimal client for the Flickr REST API methods the
// enrichment stage needs. It does not retry; callers decide what a failure
// means.
package flickr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.flickr.com/services/rest/"

var (
	// ErrTransport covers connection failures, non-200 statuses and
	// "stat":"fail" envelopes.
	ErrTransport = errors.New("flickr transport error")
	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("flickr decode error")
)

// Observer is notified once per API call with the method name and outcome.
type Observer func(method string, err error)

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	observe    Observer
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRate paces requests to rps per second. Zero or less disables pacing.
func WithRate(rps int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1)
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Every(time.Second/5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExternalLicense matches an entry of flickr.photos.licenses.getInfo.
type ExternalLicense struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

type licensesPayload struct {
	Licenses struct {
		License []ExternalLicense `json:"license"`
	} `json:"licenses"`
}

type Place struct {
	PlaceID string `json:"place_id"`
	WoeID   string `json:"woeid"`
	Name    string `json:"name"`
}

type placesPayload struct {
	Places struct {
		Place []Place `json:"place"`
	} `json:"places"`
}

// Photo is one hit of flickr.photos.search.
type Photo struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
	Server string `json:"server"`
	Farm   int    `json:"farm"`
	Title  string `json:"title"`
}

type photosPayload struct {
	Photos struct {
		Photo []Photo `json:"photo"`
	} `json:"photos"`
}

// PhotoInfo is the subset of flickr.photos.getInfo we keep.
type PhotoInfo struct {
	ID             string  `json:"id"`
	OriginalSecret string  `json:"originalsecret"`
	License        FlexInt `json:"license"`
	Owner          struct {
		Username string `json:"username"`
		RealName string `json:"realname"`
	} `json:"owner"`
}

type photoInfoPayload struct {
	Photo PhotoInfo `json:"photo"`
}

// FlexInt decodes a JSON number or a numeric string; getInfo returns the
// license id as a string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", string(b), err)
	}
	*f = FlexInt(n)
	return nil
}

// SearchParams narrows flickr.photos.search.
type SearchParams struct {
	Text     string
	PlaceID  string
	Licenses []int
	PerPage  int
}

func (c *Client) GetLicenses(ctx context.Context) ([]ExternalLicense, error) {
	var res licensesPayload
	if err := c.call(ctx, "flickr.photos.licenses.getInfo", nil, &res); err != nil {
		return nil, err
	}
	return res.Licenses.License, nil
}

func (c *Client) FindPlaces(ctx context.Context, lat, lng float64) ([]Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var res placesPayload
	if err := c.call(ctx, "flickr.places.findByLatLon", q, &res); err != nil {
		return nil, err
	}
	return res.Places.Place, nil
}

func (c *Client) SearchPhotos(ctx context.Context, p SearchParams) ([]Photo, error) {
	q := url.Values{}
	q.Set("text", p.Text)
	if p.PlaceID != "" {
		q.Set("place_id", p.PlaceID)
	}
	if len(p.Licenses) > 0 {
		ids := make([]string, len(p.Licenses))
		for i, id := range p.Licenses {
			ids[i] = strconv.Itoa(id)
		}
		q.Set("license", strings.Join(ids, ","))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}

	var res photosPayload
	if err := c.call(ctx, "flickr.photos.search", q, &res); err != nil {
		return nil, err
	}
	return res.Photos.Photo, nil
}

func (c *Client) GetPhotoInfo(ctx context.Context, photoID string) (*PhotoInfo, error) {
	q := url.Values{}
	q.Set("photo_id", photoID)

	var res photoInfoPayload
	if err := c.call(ctx, "flickr.photos.getInfo", q, &res); err != nil {
		return nil, err
	}
	return &res.Photo, nil
}

// OriginalURL is the full-size image location on Flickr's static CDN.
func OriginalURL(farm int, server, photoID, originalSecret string) string {
	return fmt.Sprintf("https://farm%d.staticflickr.com/%s/%s_%s_o.jpg", farm, server, photoID, originalSecret)
}

type status struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, q url.Values, target any) (err error) {
	if c.observe != nil {
		defer func() { c.observe(method, err) }()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, method, err)
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("method", method)
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("nojsoncallback", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, method, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status code: %d", ErrTransport, method, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %w", ErrTransport, method, err)
	}

	var st status
	if err := json.Unmarshal(body, &st); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, method, err)
	}
	if st.Stat == "fail" {
		return fmt.Errorf("%w: %s: code %d: %s", ErrTransport, method, st.Code, st.Message)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, method, err)
	}
	return nil
}
