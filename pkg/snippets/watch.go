package snippets

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/fsnotify.v1"
)

// Watch invalidates the cached catalogue whenever the fragment-source file
// changes on disk, so authors see edits without restarting the host. Only
// meaningful when the catalogue's filesystem is the real one. The returned
// stop function releases the watcher; cancelling ctx does the same.
func (c *Catalogue) Watch(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating fragment-source watcher: %w", err)
	}
	if err := watcher.Add(c.path); err != nil {
		watcher.Close()
		return nil, errors.Errorf("watching fragment source %s: %w", c.path, err)
	}

	logger := zerolog.Ctx(ctx)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("fragment source changed, invalidating catalogue")
				c.Invalidate()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("fragment-source watcher error")
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
