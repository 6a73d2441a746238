package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/maan2003/fync/contentstore"
	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/identifier"
	"github.com/maan2003/fync/ignore"
	"github.com/maan2003/fync/logging"
	"github.com/maan2003/fync/peer"
	"github.com/maan2003/fync/protocol"
	"github.com/maan2003/fync/transport"
	"github.com/maan2003/fync/watching"
)

var syncConfiguration struct {
	ignores []string
}

var syncCommand = &cobra.Command{
	Use:   "sync <source> <destination>",
	Short: "Reconcile and continuously synchronize two local directories",
	Run:   mainify(syncMain),
}

func init() {
	flags := syncCommand.Flags()
	flags.StringSliceVarP(&syncConfiguration.ignores, "ignore", "i", nil, "Specify ignore glob patterns")
}

// syncMain reconciles two local directories in-process, generalizing the
// original prototype's "sync" subcommand (a single one-shot diff/apply)
// into a live session: after the initial reconciliation it keeps both
// sides' watchers running and continues propagating changes until
// interrupted.
func syncMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 2 {
		return errors.New("exactly two directories must be specified")
	}
	sourceRoot, destinationRoot := arguments[0], arguments[1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, terminationSignals...)
	go func() {
		<-signals
		cancel()
	}()

	log := rootLogger()

	sourceSide, err := newLocalSide(sourceRoot, syncConfiguration.ignores, peer.RoleAuthoritative, log.Sublogger("source"))
	if err != nil {
		return err
	}
	destinationSide, err := newLocalSide(destinationRoot, syncConfiguration.ignores, peer.RoleSubordinate, log.Sublogger("destination"))
	if err != nil {
		return err
	}
	defer sourceSide.watcher.Close()
	defer destinationSide.watcher.Close()

	fmt.Printf("Synchronizing %s (%s, %s) <-> %s (%s, %s)\n",
		sourceRoot, sourceSide.entryReport, sourceSide.sessionID,
		destinationRoot, destinationSide.entryReport, destinationSide.sessionID)

	sourceStream, destinationStream := transport.NewInProcessPair()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return sourceSide.run(groupCtx, sourceStream)
	})
	group.Go(func() error {
		return destinationSide.run(groupCtx, destinationStream)
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	for _, path := range sourceSide.reconciler.ConflictLog() {
		warning(fmt.Sprintf("conflict at %s", path))
	}
	return nil
}

// localSide bundles everything one local root needs to participate in a
// Reconciler session: its watcher, debounced refresh stream, and the
// reconciler itself.
type localSide struct {
	root        string
	sessionID   string
	watcher     *watching.NativeSource
	ignorer     ignore.Ignorer
	reconciler  *peer.Reconciler
	debouncer   *watching.Debouncer
	entryReport string
}

func newLocalSide(root string, ignorePatterns []string, role peer.Role, log *logging.Logger) (*localSide, error) {
	ignorer, err := rootIgnorer(root, ignorePatterns)
	if err != nil {
		return nil, err
	}

	store := contentstore.New()
	snapshot, err := core.Scan(root, store, ignorer)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to scan %s", root)
	}

	watcher, err := watching.NewNativeSource(root)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to watch %s", root)
	}

	sessionID, err := identifier.New("sess")
	if err != nil {
		return nil, errors.Wrap(err, "unable to generate session identifier")
	}

	return &localSide{
		root:        root,
		sessionID:   sessionID,
		watcher:     watcher,
		ignorer:     ignorer,
		reconciler:  peer.New(root, snapshot, store, role, log.Sublogger(sessionID)),
		debouncer:   watching.NewDebouncer(),
		entryReport: humanize.Comma(int64(len(snapshot))) + " entries",
	}, nil
}

func (s *localSide) run(ctx context.Context, stream transport.Stream) error {
	refreshes := s.debouncer.Run(ctx, s.watcher.Events(), s.ignorer)
	encoder := protocol.NewEncoder(stream)
	decoder := protocol.NewDecoder(stream)
	return s.reconciler.Run(ctx, encoder, decoder, s.ignorer, refreshes)
}
