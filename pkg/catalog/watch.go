package catalog

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
)

// Watch reloads the dataset whenever file changes and passes the freshly
// normalized catalog to onChange. It blocks until ctx is done.
// The directory is watched so that replaced files are noticed as well.
//
//nolint:cyclop // event loop
func Watch(
	ctx context.Context,
	file string,
	onChange func([]model.Track),
	opts ...Option,
) error {
	l := log.GetFromContext(ctx).Named("catalog.watch")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(file)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	l.Info("watching dataset", log.String("file", target))
	for {
		select {
		case <-ctx.Done():
			l.Debug("context done, stopping dataset watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			entries, err := Load(target, opts...)
			if err != nil {
				l.Error("could not reload dataset", log.ErrorField(err))
				continue
			}
			tracks := Normalize(entries)
			l.Info("dataset reloaded", log.Int("tracks", len(tracks)))
			onChange(tracks)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Error("watcher error", log.ErrorField(err))
		}
	}
}
