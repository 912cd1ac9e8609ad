package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is the default delay for debouncing file system events.
const DebounceDelay = 100 * time.Millisecond

// FileChangeEvent reports that the watched workspace file changed.
type FileChangeEvent struct {
	// Path is the watched file.
	Path string
	// Removed is true when the last event seen was a remove or rename,
	// meaning the file may no longer exist.
	Removed bool
	// Timestamp is when the change was detected.
	Timestamp time.Time
}

// FileWatcher monitors a single workspace file for changes.
//
// The parent directory is watched rather than the file itself so that
// creation, deletion and editors that save by renaming a temp file over the
// original are all observed. Bursts of events are debounced into a single
// notification, and notifications coalesce while the consumer is busy: at
// most one is pending at any time.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger

	debounceDelay time.Duration
	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	removed       bool

	events chan FileChangeEvent

	// done signals the event loop to stop.
	done chan struct{}
	// stopped is closed when the event loop has exited.
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewFileWatcher creates a watcher for path.
// Call Start() to begin watching and Close() when done.
func NewFileWatcher(path string, logger *slog.Logger) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:       watcher,
		path:          absPath,
		logger:        logger,
		debounceDelay: DebounceDelay,
		events:        make(chan FileChangeEvent, 1),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}, nil
}

// SetDebounceDelay sets the debounce delay for batching rapid changes.
// Must be called before Start().
func (fw *FileWatcher) SetDebounceDelay(d time.Duration) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()
	fw.debounceDelay = d
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Events returns the channel on which change notifications are delivered.
func (fw *FileWatcher) Events() <-chan FileChangeEvent {
	return fw.events
}

// Start adds the directory watch and begins the event processing loop.
// The parent directory of the file must exist.
func (fw *FileWatcher) Start() error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	go fw.eventLoop()
	return nil
}

// Close stops the watcher and releases resources.
// After Close returns, no more events will be delivered.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()

		fw.debounceMu.Lock()
		if fw.debounceTimer != nil {
			fw.debounceTimer.Stop()
		}
		fw.debounceMu.Unlock()
	})
	return err
}

// Wait blocks until the event loop has exited. It must only be called
// after Start.
func (fw *FileWatcher) Wait() {
	<-fw.stopped
}

func (fw *FileWatcher) eventLoop() {
	defer close(fw.stopped)

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.logger != nil {
				fw.logger.Warn("Workspace file watcher error", "error", err)
			}
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if fw.logger != nil {
		fw.logger.Debug("Workspace file changed",
			"path", event.Name,
			"op", event.Op.String())
	}

	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	fw.removed = event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, fw.firePending)
}

func (fw *FileWatcher) firePending() {
	fw.debounceMu.Lock()
	removed := fw.removed
	fw.debounceTimer = nil
	fw.debounceMu.Unlock()

	select {
	case <-fw.done:
		return
	default:
	}

	event := FileChangeEvent{
		Path:      fw.path,
		Removed:   removed,
		Timestamp: time.Now(),
	}

	// Keep only the newest pending notification.
	select {
	case fw.events <- event:
	default:
		select {
		case <-fw.events:
		default:
		}
		select {
		case fw.events <- event:
		default:
		}
	}
}
