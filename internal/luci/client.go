// Package luci talks to an OpenWrt router's LuCI web interface: session
// login, status sampling, and the two-step reboot handshake.
package luci

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"wrtguard/internal/errors"
	"wrtguard/internal/logger"
)

// Client is a session-holding HTTP client for a single router. The cookie
// jar carries the session cookie issued at login across all later requests.
type Client struct {
	base string
	http *http.Client
	log  logger.Logger
}

// NewClient creates a client for the router at host (a base URL such as
// http://192.168.1.1). The underlying http.Client has no timeout; callers
// control cancellation through the context passed to each operation.
func NewClient(host string, log logger.Logger) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrHTTP,
			"Cannot create cookie jar", "")
	}

	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		base: strings.TrimRight(host, "/"),
		http: &http.Client{Jar: jar},
		log:  log,
	}, nil
}

// Login submits the LuCI login form. The session cookie lands in the jar.
// The response is deliberately not checked for success: a rejected login
// surfaces later as a RESPONSE error when the status document comes back
// without its fields. The status code is debug-logged for diagnosis.
func (c *Client) Login(ctx context.Context, user, password string) error {
	form := url.Values{
		"luci_username": {user},
		"luci_password": {password},
	}

	resp, err := c.postForm(ctx, c.base+"/cgi-bin/luci", form)
	if err != nil {
		return errors.Wrap(err, "Login request failed")
	}
	defer resp.Body.Close()

	c.log.Debug("login returned status %d", resp.StatusCode)
	return nil
}

// get issues a GET with the session cookie attached.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// postForm issues a form-encoded POST with the session cookie attached.
func (c *Client) postForm(ctx context.Context, url string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.http.Do(req)
}
