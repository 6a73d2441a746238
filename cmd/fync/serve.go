package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maan2003/fync/config"
	"github.com/maan2003/fync/peer"
	"github.com/maan2003/fync/protocol"
)

var serveConfiguration struct {
	ignores       []string
	authoritative bool
	subordinate   bool
}

var serveCommand = &cobra.Command{
	Use:   "serve <directory>",
	Short: "Speak the fync wire protocol over stdin/stdout for a single directory",
	Run:   mainify(serveMain),
}

func init() {
	flags := serveCommand.Flags()
	flags.StringSliceVarP(&serveConfiguration.ignores, "ignore", "i", nil, "Specify ignore glob patterns")
	flags.BoolVar(&serveConfiguration.authoritative, "authoritative", false, "Force this peer's snapshot onto the other peer during init")
	flags.BoolVar(&serveConfiguration.subordinate, "subordinate", false, "Adopt the other peer's snapshot during init")
}

// serveMain runs a single reconciler over stdin/stdout, the mode used when
// this process is launched as a remote endpoint (for example over ssh) by
// another fync instance. Exactly one side of a pair may pass
// --authoritative, and the other side (if either) must pass --subordinate;
// passing neither runs the symmetric, non-authoritative protocol.
func serveMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("exactly one directory must be specified")
	}
	root := arguments[0]

	if serveConfiguration.authoritative && serveConfiguration.subordinate {
		return config.ErrDualAuthority
	}
	role := peer.RolePeer
	if serveConfiguration.authoritative {
		role = peer.RoleAuthoritative
	} else if serveConfiguration.subordinate {
		role = peer.RoleSubordinate
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, terminationSignals...)
	go func() {
		<-signals
		cancel()
	}()

	side, err := newLocalSide(root, serveConfiguration.ignores, role, rootLogger())
	if err != nil {
		return err
	}
	defer side.watcher.Close()

	stream := standardStream()
	defer stream.Close()

	fmt.Fprintf(os.Stderr, "Serving %s (%s, %s) as %v over stdio\n", root, side.entryReport, side.sessionID, role)
	refreshes := side.debouncer.Run(ctx, side.watcher.Events(), side.ignorer)
	encoder := protocol.NewEncoder(stream)
	decoder := protocol.NewDecoder(stream)
	return side.reconciler.Run(ctx, encoder, decoder, side.ignorer, refreshes)
}

