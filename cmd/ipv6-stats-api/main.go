// Package main is the entry point for the IPv6 statistics API server.
package main

import (
	"os"

	"github.com/v6census/ipv6-stats-server/cmd/ipv6-stats-api/app"
	"github.com/v6census/ipv6-stats-server/internal/logger"
)

func main() {
	defer func() { _ = logger.Sync() }()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
