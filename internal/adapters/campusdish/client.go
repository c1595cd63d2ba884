// internal/adapters/campusdish/client.go
package campusdish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nutricheck/internal/adapters/observability"
	"nutricheck/internal/domain"
)

const (
	AuthBasic = "basic" // Authorization header
	AuthURL   = "url"   // user:pass@host

	opName    = "CampusDish API"
	userAgent = "NutriCheck/1.0"

	maxBody      = 8 << 20
	maxErrorBody = 4096
)

type Options struct {
	Base     string
	Username string
	Password string
	AuthMode string
	Timeout  time.Duration
	RPS      int
}

type Client struct {
	base     string
	user     string
	pass     string
	authMode string
	hc       *http.Client
	rl       *rate.Limiter
}

func New(o Options) *Client {
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 12 * time.Second
	}
	mode := strings.ToLower(strings.TrimSpace(o.AuthMode))
	if mode != AuthURL {
		mode = AuthBasic
	}
	return &Client{
		base:     strings.TrimRight(o.Base, "/"),
		user:     o.Username,
		pass:     o.Password,
		authMode: mode,
		hc:       &http.Client{Timeout: o.Timeout},
		rl:       rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
	}
}

// FetchMenu returns the full-menu document of one location for one date,
// decoded with json.Number so upstream ids keep their digits.
// The shape is not checked here.
func (c *Client) FetchMenu(ctx context.Context, locationID, date string) (any, error) {
	if c.user == "" || c.pass == "" {
		return nil, domain.ErrCredentialsMissing
	}
	u, err := c.menuURL(locationID, date)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	doc, err := decode(body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: opName, Status: http.StatusOK, Err: domain.ErrMalformedPayload, Cause: err}
	}
	return doc, nil
}

func (c *Client) menuURL(locationID, date string) (*url.URL, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/Service.svc/menu/locationfullmenu/%s", c.base, url.PathEscape(locationID)))
	if err != nil {
		return nil, fmt.Errorf("build menu url: %w", err)
	}
	q := u.Query()
	q.Set("date", date)
	u.RawQuery = q.Encode()
	if c.authMode == AuthURL {
		u.User = url.UserPassword(c.user, c.pass)
	}
	return u, nil
}

// get performs one GET with client-side rate limiting. There is no retry:
// a failed call fails the request.
func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, &domain.UpstreamError{Op: opName, Err: domain.ErrUpstreamUnavailable, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.authMode == AuthBasic {
		req.SetBasicAuth(c.user, c.pass)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("campusdish", "locationfullmenu", 0, time.Since(start))
		return nil, &domain.UpstreamError{Op: opName, Err: domain.ErrUpstreamUnavailable, Cause: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("campusdish", "locationfullmenu", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.UpstreamError{
			Op:         opName,
			Status:     resp.StatusCode,
			StatusText: resp.Status,
			Body:       strings.TrimSpace(string(b)),
			Err:        domain.ErrUpstreamUnavailable,
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.UpstreamError{Op: opName, Status: resp.StatusCode, StatusText: resp.Status, Err: domain.ErrUpstreamUnavailable, Cause: err}
	}
	return b, nil
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	// trailing garbage after the first value is still a malformed payload
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return doc, nil
}
