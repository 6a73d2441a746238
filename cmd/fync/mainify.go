package main

import "github.com/spf13/cobra"

// mainify wraps a Cobra entry point that returns an error into cobra.Command's
// standard Run signature, terminating the process on failure. Adapted from
// the teacher's cmd.Mainify.
func mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			fatal(err)
		}
	}
}
