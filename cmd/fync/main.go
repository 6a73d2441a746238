package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maan2003/fync/buildinfo"
	"github.com/maan2003/fync/logging"
)

var rootConfiguration struct {
	// logLevel names the logging.Level to run at.
	logLevel string
	// version requests that the command print version information and exit.
	version bool
}

var rootCommand = &cobra.Command{
	Use:   "fync",
	Short: "fync synchronizes the content of two directories",
	Run:   mainify(rootMain),
}

func rootMain(command *cobra.Command, arguments []string) error {
	if rootConfiguration.version {
		fmt.Println(buildinfo.Version)
		return nil
	}
	return command.Help()
}

func rootLogger() *logging.Logger {
	if level, ok := logging.NameToLevel(rootConfiguration.logLevel); ok {
		return logging.NewRoot(level)
	}
	return logging.NewRoot(logging.LevelInfo)
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Specify log level (disabled|error|warn|info|debug)")

	rootCommand.Flags().BoolVarP(&rootConfiguration.version, "version", "v", false, "Show version information")

	rootCommand.AddCommand(syncCommand, watchCommand, serveCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fatal(err)
	}
}
