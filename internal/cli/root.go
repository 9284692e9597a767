// Package cli implements the wrtguard command surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the --config flag value.
var cfgFile string

// rootCmd runs the watchdog check itself: there is no subcommand for the
// primary flow because the tool is designed to be a one-line cron entry.
var rootCmd = &cobra.Command{
	Use:   "wrtguard [host] [user] [password]",
	Short: "Reboot an overloaded OpenWrt router through its LuCI web UI",
	Long: `wrtguard samples an OpenWrt router's CPU usage and load averages through
the LuCI web interface and reboots the device when it shows sustained
overload: CPU usage above 20% and every load-average window above ~0.99.

Credentials come from the positional arguments when all three are given;
otherwise the [server] section of config.toml is used in full. Partial
argument sets are never merged with the file.

Examples:
  wrtguard http://192.168.1.1 root secret
  wrtguard                        # credentials from config.toml
  wrtguard --config /etc/wrtguard/config.toml`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, user, password := splitArgs(args)
		return checkCommand(host, user, password, cfgFile)
	},
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default config.toml in the working directory)")
}

// splitArgs maps the optional positional arguments onto credential fields.
func splitArgs(args []string) (host, user, password string) {
	if len(args) > 0 {
		host = args[0]
	}
	if len(args) > 1 {
		user = args[1]
	}
	if len(args) > 2 {
		password = args[2]
	}
	return host, user, password
}
