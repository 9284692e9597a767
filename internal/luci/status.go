package luci

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wrtguard/internal/errors"
)

// Status is one sample of the router's reported CPU usage and load averages.
type Status struct {
	// CPUUsage is the instantaneous CPU usage percentage.
	CPUUsage int

	// LoadAvg holds the load-average samples in document order, typically
	// the 1, 5, and 15 minute windows.
	LoadAvg []Sample
}

// Sample is one fixed-point load-average value: the true load is
// Value / 65536. Numeric is false when the document carried something
// other than a number in that position.
type Sample struct {
	Value   int64
	Numeric bool
}

// Status fetches and parses the router's status document. The unix-epoch
// query parameter defeats upstream caching.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	url := fmt.Sprintf("%s/cgi-bin/luci/?status=1&_=%d", c.base, time.Now().Unix())

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "Status request failed")
	}
	defer resp.Body.Close()

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrResponse,
			"Cannot decode status document",
			"A rejected login returns a page without status JSON; check the credentials")
	}

	return parseStatus(doc)
}

// parseStatus extracts CPU usage and load averages from the raw document.
// cpuusage is a string of the form "<int>\n<per-core data>"; only the
// leading integer matters here.
func parseStatus(doc map[string]any) (*Status, error) {
	raw, ok := doc["cpuusage"]
	if !ok {
		return nil, errors.New(errors.ErrResponse,
			"Status document is missing cpuusage",
			"Check the login credentials and that the target runs LuCI")
	}

	text, ok := raw.(string)
	if !ok {
		return nil, errors.New(errors.ErrResponse,
			fmt.Sprintf("cpuusage has unexpected type %T", raw), "")
	}

	head, _, found := strings.Cut(text, "\n")
	if !found {
		return nil, errors.New(errors.ErrResponse,
			"cpuusage is missing its newline separator", "")
	}

	usage, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrResponse,
			"cpuusage does not start with a number", "")
	}

	status := &Status{CPUUsage: usage}

	if list, ok := doc["loadavg"].([]any); ok {
		for _, el := range list {
			if n, ok := el.(float64); ok {
				status.LoadAvg = append(status.LoadAvg, Sample{Value: int64(n), Numeric: true})
			} else {
				status.LoadAvg = append(status.LoadAvg, Sample{})
			}
		}
	}

	return status, nil
}
