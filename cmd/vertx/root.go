package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vertx",
	Short: "vertx serves HTTP requests through a tree of nodes",
	Long: `vertx dispatches every request through a tree of linked nodes.
Each node may rewrite the response, pass it to its children, or bounce it
straight back to the client.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", "", "Project root (defaults to the directory containing go.mod)")
	rootCmd.PersistentFlags().String("config", "", "Config file (defaults to <dir>/vertx.yaml)")
}

// getProjectRoot walks up from the working directory to the first
// directory containing go.mod.
func getProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}
