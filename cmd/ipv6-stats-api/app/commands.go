// Package app provides the CLI commands for the IPv6 statistics API server.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:   "ipv6-stats-api",
	Short: "IPv6 adoption statistics API server",
	Long: `ipv6-stats-api collects IPv6 adoption statistics from public
sources (Google, APNIC, BGP tables, the RIRs and others), caches them,
and serves them over a REST API.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize(viper.GetBool("debug"))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				logger.Errorf("Failed to marshal version info: %v", err)
				return
			}
			fmt.Println(string(output))
			return
		}

		fmt.Printf("Version: %s\n", info.Version)
		fmt.Printf("Commit: %s\n", info.Commit)
		fmt.Printf("Build Date: %s\n", info.BuildDate)
		fmt.Printf("Go Version: %s\n", info.GoVersion)
		fmt.Printf("Platform: %s\n", info.Platform)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Fatalf("Failed to bind debug flag: %v", err)
	}

	versionCmd.Flags().String("format", "text", "Output format (text or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}

// NewRootCmd returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	return rootCmd
}
