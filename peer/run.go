package peer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/maan2003/fync/core"
	"github.com/maan2003/fync/ignore"
	"github.com/maan2003/fync/protocol"
	"github.com/maan2003/fync/watching"
)

// Run drives the reconciler for the lifetime of a connection: it performs
// the init handshake, then multiplexes inbound protocol messages and
// debounced local filesystem refreshes until ctx is cancelled or a fatal
// error occurs.
//
// ignorer is applied to every refresh; refreshes is the debounced output of
// a watching.Debouncer already wired to a raw event source for r.root.
func (r *Reconciler) Run(ctx context.Context, enc *protocol.Encoder, dec *protocol.Decoder, ignorer ignore.Ignorer, refreshes <-chan []watching.RefreshRequest) error {
	if err := r.Handshake(enc, dec); err != nil {
		return err
	}

	incoming := make(chan *protocol.RegularMessage)
	decodeErrors := make(chan error, 1)
	go func() {
		for {
			var msg protocol.RegularMessage
			if err := dec.Decode(&msg); err != nil {
				select {
				case decodeErrors <- err:
				case <-ctx.Done():
				}
				return
			}
			select {
			case incoming <- &msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.fail()
			return ctx.Err()

		case err := <-decodeErrors:
			r.fail()
			return errors.Wrap(err, "connection closed")

		case msg := <-incoming:
			response, err := r.HandleIncoming(msg)
			if err != nil {
				r.fail()
				return err
			}
			if response != nil {
				if err := enc.Encode(response); err != nil {
					r.fail()
					return errors.Wrap(err, "unable to send response")
				}
			}
			if out, ok := r.NextOutgoing(); ok {
				if err := enc.Encode(out); err != nil {
					r.fail()
					return errors.Wrap(err, "unable to send changes")
				}
			}

		case batch, ok := <-refreshes:
			if !ok {
				refreshes = nil
				continue
			}
			if err := r.rescan(ignorer, batch); err != nil {
				r.fail()
				return err
			}
			if out, ok := r.NextOutgoing(); ok {
				if err := enc.Encode(out); err != nil {
					r.fail()
					return errors.Wrap(err, "unable to send changes")
				}
			}
		}
	}
}

// rescan applies a batch of refresh requests to the local snapshot, per
// spec.md §4.5: a RefreshPath request re-derives the single named entry
// (stat+read it, or drop it from the snapshot if it's gone), and a
// RefreshFullRescan request prunes every snapshot entry under the named
// subtree and re-walks it from scratch, since the watcher can't tell us
// what the subtree used to contain. Requests are applied in the batch's
// given order; a later request overwrites an earlier one's effect on the
// same path, which is already how the debouncer deduplicates a burst.
func (r *Reconciler) rescan(ignorer ignore.Ignorer, batch []watching.RefreshRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range batch {
		relPath := core.NewRelPath(request.Path)

		switch request.Kind {
		case watching.RefreshPath:
			meta, ok, err := core.ScanPath(r.root, relPath, ignorer, r.store)
			if err != nil {
				return errors.Wrapf(err, "unable to refresh %s", relPath)
			}
			if ok {
				r.local[relPath] = meta
			} else {
				delete(r.local, relPath)
			}

		case watching.RefreshFullRescan:
			for path := range r.local {
				if path.HasPrefix(relPath) {
					delete(r.local, path)
				}
			}
			subtree, err := core.ScanSubtree(r.root, relPath, ignorer, r.store)
			if err != nil {
				return errors.Wrapf(err, "unable to rescan %s", relPath)
			}
			for path, meta := range subtree {
				r.local[path] = meta
			}

		default:
			return errors.Errorf("unrecognized refresh request kind %v for %s", request.Kind, relPath)
		}
	}

	return nil
}
