package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"wrtguard/internal/config"
	"wrtguard/internal/logger"
	"wrtguard/internal/luci"
	"wrtguard/internal/watch"
)

// Semantic colors for severity indication (ANSI codes for terminal
// compatibility).
const (
	colorCalm lipgloss.Color = "2" // Green
	colorHot  lipgloss.Color = "1" // Red
	colorWarm lipgloss.Color = "3" // Yellow
)

var statusJSON bool

// statusCmd fetches the router's status document and prints it without
// ever rebooting. Useful to eyeball what the check run would see.
var statusCmd = &cobra.Command{
	Use:   "status [host] [user] [password]",
	Short: "Show the router's CPU usage and load averages",
	Long: `Log in to the router, fetch the status document, and print the CPU
usage and load averages the watchdog would evaluate. Never reboots.

Examples:
  wrtguard status
  wrtguard status http://192.168.1.1 root secret
  wrtguard status --json`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, user, password := splitArgs(args)
		return statusCommand(host, user, password, cfgFile)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput represents the JSON output for the status command. Load
// averages are converted from the fixed-point wire values; non-numeric
// samples come out as null.
type StatusOutput struct {
	CPUUsage int        `json:"cpu_usage"`
	LoadAvg  []*float64 `json:"load_avg"`
}

// statusCommand implements the status command logic.
func statusCommand(host, user, password, cfgPath string) error {
	server, err := config.Resolve(host, user, password, cfgPath)
	if err != nil {
		return err
	}

	client, err := luci.NewClient(server.Host, logger.Default())
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.Login(ctx, server.User, server.Password); err != nil {
		return err
	}

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if statusJSON {
		return json.NewEncoder(os.Stdout).Encode(buildStatusOutput(status))
	}

	fmt.Println(renderStatus(server.Host, status))
	return nil
}

// buildStatusOutput converts a snapshot into the JSON document shape.
func buildStatusOutput(status *luci.Status) StatusOutput {
	out := StatusOutput{CPUUsage: status.CPUUsage}
	for _, sample := range status.LoadAvg {
		if sample.Numeric {
			load := float64(sample.Value) / 65536
			out.LoadAvg = append(out.LoadAvg, &load)
		} else {
			out.LoadAvg = append(out.LoadAvg, nil)
		}
	}
	return out
}

// renderStatus formats the snapshot for the terminal, coloring each value
// by where it sits relative to the watchdog thresholds.
func renderStatus(host string, status *luci.Status) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", host))

	cpuColor := colorCalm
	if status.CPUUsage > watch.CPUThreshold {
		cpuColor = colorWarm
	}
	cpu := lipgloss.NewStyle().Foreground(cpuColor).Render(fmt.Sprintf("%d%%", status.CPUUsage))
	b.WriteString(fmt.Sprintf("  cpu:  %s\n", cpu))

	b.WriteString("  load:")
	if len(status.LoadAvg) == 0 {
		b.WriteString(" (none reported)")
	}
	for _, sample := range status.LoadAvg {
		if !sample.Numeric {
			b.WriteString(" n/a")
			continue
		}
		color := colorCalm
		if sample.Value > watch.LoadThreshold {
			color = colorHot
		}
		load := lipgloss.NewStyle().Foreground(color).Render(
			fmt.Sprintf("%.2f", float64(sample.Value)/65536))
		b.WriteString(" " + load)
	}

	return b.String()
}
