// Package watch decides whether the router needs a reboot and drives one
// linear check run.
package watch

import (
	"context"

	"wrtguard/internal/config"
	"wrtguard/internal/logger"
	"wrtguard/internal/luci"
)

const (
	// CPUThreshold is the usage percentage at or below which the run stops
	// without looking at load averages.
	CPUThreshold = 20

	// LoadThreshold is the fixed-point load every sample must strictly
	// exceed before a reboot is warranted. The raw integer is load × 65536,
	// so 65000 is a load of roughly 0.99.
	LoadThreshold = 65000
)

// ShouldReboot applies the two-stage threshold check: instantaneous CPU
// usage first, then every load-average window. Requiring all windows above
// threshold means the overload is sustained, not momentary.
//
// An empty sample list never triggers a reboot: it means the status
// document came back degenerate, not that the device is overloaded.
// Non-numeric samples count as below threshold.
func ShouldReboot(status *luci.Status, log logger.Logger) bool {
	if status.CPUUsage <= CPUThreshold {
		log.Info("Current cpu usage is %d, there is nothing to do", status.CPUUsage)
		return false
	}

	log.Info("Current cpu usage is %d, checking load averages", status.CPUUsage)

	if len(status.LoadAvg) == 0 {
		log.Info("Status document carries no load averages, skipping reboot")
		return false
	}

	for _, sample := range status.LoadAvg {
		if !sample.Numeric || sample.Value <= LoadThreshold {
			return false
		}
		log.Info("Current load average value is %d", sample.Value)
	}

	return true
}

// Run executes one watchdog pass against the router: login, sample the
// status document, and reboot when the thresholds say so. The flow is
// strictly linear and the first error aborts the run.
func Run(ctx context.Context, client *luci.Client, server config.Server, log logger.Logger) error {
	if err := client.Login(ctx, server.User, server.Password); err != nil {
		return err
	}

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if !ShouldReboot(status, log) {
		return nil
	}

	log.Warn("Sustained overload detected, rebooting %s", server.Host)
	return client.Reboot(ctx)
}
