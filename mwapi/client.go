package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 32 << 20 // 32MiB

type Option func(*Client)

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.ua = ua
		}
	}
}

// WithTimeout bounds each request. Zero keeps the http.Client default (none).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.hc == nil {
			return
		}
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithMaxBodySize caps the bytes read from a response body. Anything past
// the cap is dropped, which leaves a truncated (invalid) JSON document.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

type Client struct {
	endpoint *url.URL
	hc       *http.Client
	ua       string

	maxBody int64

	sf singleflight.Group
}

func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint URL (expect full URL): %q", endpoint)
	}
	if !strings.HasSuffix(u.Path, "api.php") {
		return nil, fmt.Errorf("invalid endpoint path (expect .../api.php): %q", u.Path)
	}

	c := &Client{
		endpoint: u,
		hc:       &http.Client{},
		ua:       "mwsiteconfig/0.1",
		maxBody:  DefaultMaxBodySize,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// EndpointForHost builds the api.php URL of a wiki from its host name.
// An empty path means the Wikimedia default "/w/api.php".
func EndpointForHost(scheme, host, path string) (string, error) {
	if scheme == "" {
		scheme = "https"
	}
	if path == "" {
		path = "/w/api.php"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	raw := fmt.Sprintf("%s://%s%s", scheme, host, path)
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" || u.Host != host {
		return "", fmt.Errorf("invalid host name: %q", host)
	}
	return u.String(), nil
}

// Endpoint returns the api.php URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

func (c *Client) Get(ctx context.Context, p any) (*Response, error) {
	values, err := normalizeParams(p)
	if err != nil {
		return nil, err
	}
	return c.doOnce(ctx, values)
}

func (c *Client) doOnce(ctx context.Context, values url.Values) (*Response, error) {
	req, err := c.buildRequest(ctx, values)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody))
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header.Clone(),
		Raw:        json.RawMessage(body),
	}

	// Best-effort parse the minimal envelope fields.
	_ = json.Unmarshal(body, &resp.Envelope)

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, values url.Values) (*http.Request, error) {
	base := *c.endpoint
	base.RawQuery = mergeQuery(base.Query(), values).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)
	return req, nil
}

func mergeQuery(base url.Values, overlay url.Values) url.Values {
	out := url.Values{}
	for k, vs := range base {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	for k, vs := range overlay {
		// Overlay wins and stays single-valued.
		if len(vs) > 0 {
			out.Set(k, vs[0])
		}
	}
	return out
}

func responseApiError(r *Response) *MediaWikiApiError {
	if r.Error == nil && len(r.Errors) == 0 {
		return nil
	}
	var code, msg string
	var errs []MWError
	if r.Error != nil {
		code = r.Error.Code
		msg = firstNonEmpty(r.Error.Info, r.Error.Text, r.Error.Star)
		errs = append(errs, *r.Error)
	}
	if len(r.Errors) > 0 {
		if code == "" {
			code = r.Errors[0].Code
		}
		if msg == "" {
			msg = firstNonEmpty(r.Errors[0].Info, r.Errors[0].Text, r.Errors[0].Star)
		}
		errs = append(errs, r.Errors...)
	}
	if msg == "" {
		msg = "MediaWiki API error"
	}
	return &MediaWikiApiError{
		Code:       code,
		Message:    msg,
		HTTPStatus: r.StatusCode,
		Errors:     errs,
		Response:   r,
	}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
