package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treant",
		Short: "treant trains and evaluates adversarially robust regression trees",
		Long:  `A tool to grow regression trees and forests robust to a declared adversary, test them, and use them to make predictions.`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if config.verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}
	rootCmd.AddCommand(versionCmd(), trainCmd(config), predictCmd(config), testCmd(config))
	return rootCmd
}
