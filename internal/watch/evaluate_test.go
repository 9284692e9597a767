package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrtguard/internal/config"
	"wrtguard/internal/logger"
	"wrtguard/internal/luci"
)

func numeric(values ...int64) []luci.Sample {
	samples := make([]luci.Sample, 0, len(values))
	for _, v := range values {
		samples = append(samples, luci.Sample{Value: v, Numeric: true})
	}
	return samples
}

func TestShouldReboot(t *testing.T) {
	tests := []struct {
		name   string
		status luci.Status
		want   bool
	}{
		{
			name:   "cpu at threshold does nothing",
			status: luci.Status{CPUUsage: 20, LoadAvg: numeric(90000, 90000, 90000)},
			want:   false,
		},
		{
			name:   "low cpu ignores high load",
			status: luci.Status{CPUUsage: 5, LoadAvg: numeric(90000, 90000, 90000)},
			want:   false,
		},
		{
			name:   "high cpu and all windows above threshold",
			status: luci.Status{CPUUsage: 45, LoadAvg: numeric(70000, 68000, 66000)},
			want:   true,
		},
		{
			name:   "one window below threshold",
			status: luci.Status{CPUUsage: 45, LoadAvg: numeric(70000, 40000, 66000)},
			want:   false,
		},
		{
			name:   "window exactly at threshold is not above it",
			status: luci.Status{CPUUsage: 45, LoadAvg: numeric(70000, 65000, 66000)},
			want:   false,
		},
		{
			name:   "empty load list never reboots",
			status: luci.Status{CPUUsage: 45},
			want:   false,
		},
		{
			name: "non-numeric sample counts as below threshold",
			status: luci.Status{
				CPUUsage: 45,
				LoadAvg:  []luci.Sample{{Value: 70000, Numeric: true}, {}, {Value: 66000, Numeric: true}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldReboot(&tt.status, logger.Noop())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldRebootLogging(t *testing.T) {
	t.Run("low cpu logs nothing-to-do line", func(t *testing.T) {
		log := logger.NewBufferLogger()
		ShouldReboot(&luci.Status{CPUUsage: 15}, log)

		require.Len(t, log.Messages, 1)
		assert.Equal(t, "info", log.Messages[0].Level)
		assert.Contains(t, log.Messages[0].Message, "nothing to do")
	})

	t.Run("each window above threshold is logged", func(t *testing.T) {
		log := logger.NewBufferLogger()
		ShouldReboot(&luci.Status{CPUUsage: 45, LoadAvg: numeric(70000, 68000, 66000)}, log)

		var loadLines int
		for _, m := range log.Messages {
			if m.Level == "info" && strings.HasPrefix(m.Message, "Current load average value is") {
				loadLines++
			}
		}
		assert.Equal(t, 3, loadLines)
	})
}

// fakeRouter simulates the LuCI endpoints the watchdog touches and records
// which of them were hit.
type fakeRouter struct {
	mu sync.Mutex

	cpuusage string
	loadavg  []any

	logins         int
	statusFetches  int
	rebootPageHits int
	rebootTokens   []string
}

const fakeToken = "deadbeefdeadbeefdeadbeefdeadbeef"

func (f *fakeRouter) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cgi-bin/luci", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logins++
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "sysauth", Value: "session", Path: "/"})
	})
	mux.HandleFunc("GET /cgi-bin/luci/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.statusFetches++
		doc := map[string]any{"cpuusage": f.cpuusage, "loadavg": f.loadavg}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("GET /cgi-bin/luci/admin/system/reboot", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rebootPageHits++
		f.mu.Unlock()
		w.Write([]byte(`<script>var r = { token: '` + fakeToken + `' };</script>`))
	})
	mux.HandleFunc("POST /cgi-bin/luci/admin/system/reboot/call", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.rebootTokens = append(f.rebootTokens, r.PostForm.Get("token"))
		f.mu.Unlock()
	})
	return mux
}

func runAgainst(t *testing.T, router *fakeRouter, log logger.Logger) error {
	t.Helper()

	ts := httptest.NewServer(router.handler())
	t.Cleanup(ts.Close)

	client, err := luci.NewClient(ts.URL, log)
	require.NoError(t, err)

	server := config.Server{Host: ts.URL, User: "root", Password: "secret"}
	return Run(context.Background(), client, server, log)
}

func TestRunNormalCPU(t *testing.T) {
	// Scenario A: CPU=15 means no request past the status fetch.
	router := &fakeRouter{cpuusage: "15\nrest", loadavg: []any{70000, 68000, 66000}}

	require.NoError(t, runAgainst(t, router, logger.Noop()))

	assert.Equal(t, 1, router.logins)
	assert.Equal(t, 1, router.statusFetches)
	assert.Zero(t, router.rebootPageHits)
	assert.Empty(t, router.rebootTokens)
}

func TestRunSustainedOverloadReboots(t *testing.T) {
	// Scenario B: CPU=45 with every window above threshold.
	router := &fakeRouter{cpuusage: "45\nrest", loadavg: []any{70000, 68000, 66000}}
	log := logger.NewBufferLogger()

	require.NoError(t, runAgainst(t, router, log))

	assert.Equal(t, 1, router.rebootPageHits)
	require.Len(t, router.rebootTokens, 1)
	assert.Equal(t, fakeToken, router.rebootTokens[0])
	assert.True(t, log.HasLevel("warn"), "a warning should precede the reboot call")
}

func TestRunMomentarySpikeDoesNotReboot(t *testing.T) {
	// Scenario C: one window below threshold means the load is not sustained.
	router := &fakeRouter{cpuusage: "45\nrest", loadavg: []any{70000, 40000, 66000}}

	require.NoError(t, runAgainst(t, router, logger.Noop()))

	assert.Zero(t, router.rebootPageHits)
	assert.Empty(t, router.rebootTokens)
}

func TestRunEmptyLoadListDoesNotReboot(t *testing.T) {
	// Scenario D: an empty loadavg is degenerate data, never an overload.
	router := &fakeRouter{cpuusage: "45\nrest", loadavg: []any{}}

	require.NoError(t, runAgainst(t, router, logger.Noop()))

	assert.Zero(t, router.rebootPageHits)
	assert.Empty(t, router.rebootTokens)
}

func TestRunMalformedStatusAborts(t *testing.T) {
	router := &fakeRouter{cpuusage: "45", loadavg: []any{70000}} // no newline

	err := runAgainst(t, router, logger.Noop())

	require.Error(t, err)
	assert.Zero(t, router.rebootPageHits)
}
