package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maan2003/fync/config"
	"github.com/maan2003/fync/ignore"
	"github.com/maan2003/fync/watching"
)

var watchConfiguration struct {
	ignores []string
}

var watchCommand = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Print debounced refresh batches as they occur beneath a directory",
	Run:   mainify(watchMain),
}

func init() {
	flags := watchCommand.Flags()
	flags.StringSliceVarP(&watchConfiguration.ignores, "ignore", "i", nil, "Specify ignore glob patterns")
}

// watchMain is the CLI surface for the watcher adapter on its own, useful
// for inspecting what a given directory's change traffic debounces down
// to. It's the direct descendant of the original prototype's watch
// subcommand, generalized to the two-window debouncer and ignore filtering
// this module adds on top.
func watchMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("exactly one directory must be specified")
	}
	root := arguments[0]

	ignorer, err := rootIgnorer(root, watchConfiguration.ignores)
	if err != nil {
		return err
	}

	source, err := watching.NewNativeSource(root)
	if err != nil {
		return errors.Wrap(err, "unable to create watcher")
	}
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, terminationSignals...)
	go func() {
		<-signals
		cancel()
	}()

	debouncer := watching.NewDebouncer()
	refreshes := debouncer.Run(ctx, source.Events(), ignorer)

	fmt.Println("Watching", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-source.Errors():
			if !ok {
				return nil
			}
			warning(err.Error())
		case batch, ok := <-refreshes:
			if !ok {
				return nil
			}
			divider()
			fmt.Println("Changes detected:")
			for _, request := range batch {
				fmt.Printf("  %s\n", request.Path)
			}
		}
	}
}

// rootIgnorer builds the combined ignore predicate for root: any patterns
// passed on the command line plus whatever a ".fyncignore" file at the
// root contributes.
func rootIgnorer(root string, extra []string) (ignore.Ignorer, error) {
	filePatterns, err := config.ReadIgnoreFile(root + "/.fyncignore")
	if err != nil {
		return nil, err
	}
	patterns := append(append([]string{}, filePatterns...), extra...)
	if len(patterns) == 0 {
		return ignore.None, nil
	}
	globIgnorer, err := config.NewGlobIgnorer(patterns)
	if err != nil {
		return nil, err
	}
	return globIgnorer, nil
}
