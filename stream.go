package logbook

import (
	"context"
	"path/filepath"

	"github.com/autom8ter/machine/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// changeChannel carries a tick for every mutation of the journal file
const changeChannel = "journal.changed"

// WatchHandler handles a refreshed result set. Returning false or an
// error ends the watch.
type WatchHandler func(ctx context.Context, documents Documents) (bool, error)

// Watch evaluates the filter immediately and again every time the
// journal file changes, passing each result set to the handler. It
// blocks until the context ends, the handler stops the watch or a
// query fails.
func (d *DB) Watch(ctx context.Context, filter *Document, opts *FindOptions, fn WatchHandler) error {
	documents, err := d.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	cont, err := fn(ctx, documents)
	if err != nil || !cont {
		return err
	}
	err = d.machine.Subscribe(ctx, changeChannel, func(ctx context.Context, msg machine.Message) (bool, error) {
		documents, err := d.Find(ctx, filter, opts)
		if err != nil {
			return false, err
		}
		return fn(ctx, documents)
	})
	// the context ending is how a watch is expected to stop
	if err == context.Canceled || err == context.DeadlineExceeded {
		return nil
	}
	return err
}

// forwardJournalEvents pumps filesystem events for the journal file
// into the change channel that Watch subscriptions listen on.
func (d *DB) forwardJournalEvents(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(d.config.Path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			d.logger.Debug("journal changed", zap.String("op", event.Op.String()))
			d.machine.Publish(ctx, machine.Message{
				Channel: changeChannel,
				Body:    event.Op.String(),
			})
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("journal watcher failure", zap.Error(err))
		}
	}
}
