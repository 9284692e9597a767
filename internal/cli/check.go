package cli

import (
	"context"

	"wrtguard/internal/config"
	"wrtguard/internal/logger"
	"wrtguard/internal/luci"
	"wrtguard/internal/watch"
)

// checkCommand implements the root command: resolve credentials, build the
// session client, and run one watchdog pass.
func checkCommand(host, user, password, cfgPath string) error {
	server, err := config.Resolve(host, user, password, cfgPath)
	if err != nil {
		return err
	}

	log := logger.Default()

	client, err := luci.NewClient(server.Host, log)
	if err != nil {
		return err
	}

	return watch.Run(context.Background(), client, server, log)
}
