package luci

import (
	"context"
	"io"
	"net/url"

	"wrtguard/internal/errors"
)

// Reboot performs the two-step reboot handshake: fetch the reboot page,
// extract its one-time token, and POST the token back to confirm. The
// confirmation response is not inspected beyond transport success.
func (c *Client) Reboot(ctx context.Context) error {
	resp, err := c.get(ctx, c.base+"/cgi-bin/luci/admin/system/reboot")
	if err != nil {
		return errors.Wrap(err, "Reboot page request failed")
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "Cannot read reboot page")
	}

	token, err := extractToken(string(body))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrResponse,
			"Reboot page does not contain a token",
			"The LuCI reboot page layout may have changed")
	}
	c.log.Debug("reboot token extracted")

	confirm, err := c.postForm(ctx, c.base+"/cgi-bin/luci/admin/system/reboot/call",
		url.Values{"token": {token}})
	if err != nil {
		return errors.Wrap(err, "Reboot call failed")
	}
	confirm.Body.Close()

	return nil
}
