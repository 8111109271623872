// Package cmd implements the command-line entry points for imgserve.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/imgserve/common"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     common.App,
	Short:   "imgserve serves a binary image corpus and a static asset tree over HTTP/1.1",
	Version: versionString(),
}

// versionString appends build-time metadata (git hash, build time) to the
// release version when ldflags populated it; falls back to the bare
// version for plain `go build` invocations during development.
func versionString() string {
	info := common.GetBuildInfo()
	version := common.Version
	if info.Version != "" {
		version = info.Version
	}
	if info.GitHash == "" {
		return version
	}
	return fmt.Sprintf("%s (%s, built %s)", version, info.GitHash, info.Time)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
