package luci

import (
	"errors"
	"regexp"
)

// tokenPattern matches the one-time token LuCI embeds in the reboot page.
// The token guards the reboot call against cross-site triggers.
var tokenPattern = regexp.MustCompile(`token: '([\da-f]{32})'`)

// ErrNoToken is returned when the reboot page contains no token. The page
// layout changing upstream is the usual cause.
var ErrNoToken = errors.New("no reboot token found in page")

// extractToken pulls the 32-character hex token out of the reboot page
// HTML. Only the first match is taken; this is intentionally not an HTML
// parser.
func extractToken(body string) (string, error) {
	m := tokenPattern.FindStringSubmatch(body)
	if m == nil {
		return "", ErrNoToken
	}
	return m[1], nil
}
