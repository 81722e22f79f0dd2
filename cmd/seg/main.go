package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teatak/hanseg/util"
)

var logger = util.Logger

//go:embed version.txt
var version string

var (
	configFile string
	verbose    bool
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of seg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.TrimSpace(version))
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "seg",
		Short: "seg cuts Chinese text into words",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				util.SetVerbose()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	commands := []*cobra.Command{
		newCutCommand(),
		newPosCommand(),
		newBatchCommand(),
		versionCommand,
	}
	for _, command := range commands {
		rootCmd.AddCommand(command)
	}
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("Failed to execute command")
	}
}
