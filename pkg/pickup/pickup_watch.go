package pickup

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jlrickert/pickup/pkg/log"
)

type WatchOptions struct {
	// Debounce is how long the settings file must stay quiet after an event
	// before a sweep starts. Editors tend to write in bursts.
	Debounce time.Duration
}

// Watch blocks watching the repository settings file and re-syncs every
// tracked package whenever it changes with new content. Changes to the
// filter policy take effect on the next sweep. Returns when ctx is canceled.
func (p *Pickup) Watch(ctx context.Context, opts WatchOptions) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	logger := log.FromContext(ctx)
	settingsPath := filepath.Join(p.Root, SettingsFilename)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory, not the file: editors replace files and the old
	// inode's watch dies with it.
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create repo root: %w", err)
	}
	if err := watcher.Add(p.Root); err != nil {
		return fmt.Errorf("watch repo root: %w", err)
	}

	var (
		hasHash  bool
		lastHash [sha256.Size]byte
	)
	if initial, err := os.ReadFile(settingsPath); err == nil {
		lastHash = sha256.Sum256(initial)
		hasHash = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read settings: %w", err)
	}

	sweep := func() {
		raw, err := os.ReadFile(settingsPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return
			}
			logger.Warn("read settings", "error", err)
			return
		}
		sum := sha256.Sum256(raw)
		if hasHash && sum == lastHash {
			return
		}
		lastHash = sum
		hasHash = true

		if err := p.reloadFilter(); err != nil {
			logger.Warn("settings rejected, keeping previous filter", "error", err)
			return
		}
		logger.Info("settings changed, updating tracked packages")
		if err := p.UpdateAll(ctx); err != nil {
			logger.Warn("sweep finished with errors", "error", err)
		}
	}

	var (
		pending     bool
		pendingFrom time.Time
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if pending && time.Since(pendingFrom) >= debounce {
				sweep()
				pending = false
			}
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			if filepath.Base(event.Name) != SettingsFilename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) != 0 {
				pending = true
				pendingFrom = time.Now()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			logger.Warn("settings watcher error", "error", watchErr)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reloadFilter recompiles the filter from the settings file, keeping the
// remote and release flags already configured on the instance.
func (p *Pickup) reloadFilter() error {
	settings, err := LoadSettings(p.Root)
	if err != nil {
		return err
	}
	filter, err := settings.Wheels.Compile(p.Flags)
	if err != nil {
		return err
	}
	p.Filter = filter
	return nil
}
