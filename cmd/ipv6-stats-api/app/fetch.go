package app

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/httpclient"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch a single data source and print the record as JSON",
	Long: `Fetch one data source, bypassing the server, and print the
resulting record to stdout. Useful for inspecting what a source
returns and for debugging parsers.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !slices.Contains(sources.Names, name) {
		return fmt.Errorf("unknown source %q, valid sources: %v", name, sources.Names)
	}

	cfg, err := loadConfig(viper.GetString("config"))
	if err != nil {
		return err
	}

	client := httpclient.NewDefaultClient(
		cfg.Collector.FetchTimeout,
		httpclient.WithUserAgent(cfg.Collector.UserAgent),
	)
	col := collector.New(client, cache.New(),
		collector.WithTTLs(cfg.Cache.TTL, cfg.Cache.ErrorTTL),
	)

	rec, ok := col.Fetch(cmd.Context(), name)
	if !ok {
		return fmt.Errorf("source %q is not dispatchable", name)
	}

	output, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
