package corpus

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/verte-zerg/keyzen/internal/logging"
)

// Watch reloads the corpus at path whenever it is written and passes the new quotes to onChange.
// Invalid files are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func([]Quote)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			// Best-effort watcher close.
			_ = cerr
		}
	}()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)
	log := logging.GetLogger().Named("corpus")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			quotes, err := Load(path)
			if err != nil {
				log.Warn("corpus reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Info("corpus reloaded", zap.String("path", path), zap.Int("quotes", len(quotes)))
			onChange(quotes)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("corpus watcher error", zap.Error(err))
		}
	}
}
