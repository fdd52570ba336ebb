package main

import (
	"os"

	"github.com/spf13/cobra"

	"tessera/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Dialect-pluggable SSA IR framework with concrete and abstract interpreters",
	Long:  `tessera executes and analyzes IR programs built from pluggable instruction sets`,
}

func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(selfcheckCmd)

	rootCmd.PersistentFlags().String("config", "", "path to tessera.toml (default: ./tessera.toml if present)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace verbosity (off|step|debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
