package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last change before a batch
// of accumulated files is reported.
const defaultDebounce = 500 * time.Millisecond

// sourceWatcher implements SourceWatcher.
type sourceWatcher struct {
	watcher       *fsnotify.Watcher
	dirs          []string             // Directories to watch recursively
	extensions    map[string]bool      // Extensions to monitor (.java by default)
	debounce      time.Duration        // Quiet period before firing callback
	callback      func(files []string) // Callback to invoke with changed files
	ctx           context.Context      // Context for lifecycle management
	cancel        context.CancelFunc   // Cancel function for internal context
	paused        bool                 // Whether watching is paused
	pausedMu      sync.RWMutex         // Protects paused flag
	accumulated   map[string]bool      // Accumulated file changes
	accumulatedMu sync.Mutex           // Protects accumulated map
	debounceTimer *time.Timer          // Current debounce timer
	timerMu       sync.Mutex           // Protects debounce timer
	stopOnce      sync.Once            // Ensures Stop() is idempotent
	doneCh        chan struct{}        // Signals watch goroutine has finished
}

// NewSourceWatcher creates a watcher over the given directories. A nil or
// empty extensions list defaults to Java sources.
func NewSourceWatcher(dirs []string, extensions []string) (SourceWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".java"}
	}
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[ext] = true
	}

	sw := &sourceWatcher{
		watcher:     fsWatcher,
		dirs:        dirs,
		extensions:  extMap,
		debounce:    defaultDebounce,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := sw.addDirectoriesRecursively(dir); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	return sw, nil
}

// Start begins watching for file changes.
func (sw *sourceWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	sw.callback = callback
	sw.ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch()
	return nil
}

// Stop stops the watcher.
func (sw *sourceWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-sw.doneCh
		} else {
			// Never started, close doneCh manually
			close(sw.doneCh)
		}

		err = sw.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but continues accumulating events.
func (sw *sourceWatcher) Pause() {
	sw.pausedMu.Lock()
	defer sw.pausedMu.Unlock()
	sw.paused = true
}

// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
func (sw *sourceWatcher) Resume() {
	sw.pausedMu.Lock()
	wasPaused := sw.paused
	sw.paused = false
	sw.pausedMu.Unlock()

	if !wasPaused {
		return
	}
	if files := sw.drain(); len(files) > 0 && sw.callback != nil {
		sw.callback(files)
	}
}

// drain copies and clears the accumulated set, returning the files sorted.
func (sw *sourceWatcher) drain() []string {
	sw.accumulatedMu.Lock()
	defer sw.accumulatedMu.Unlock()

	if len(sw.accumulated) == 0 {
		return nil
	}

	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)
	sort.Strings(files)
	return files
}

// watch is the main event loop.
func (sw *sourceWatcher) watch() {
	defer close(sw.doneCh)

	buildCh := make(chan struct{}, 1)

	for {
		select {
		case <-sw.ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// New package directories need to be added to the watch set
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := sw.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if !sw.shouldProcessEvent(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[event.Name] = true
			sw.accumulatedMu.Unlock()

			sw.resetDebounceTimer(buildCh)

		case <-buildCh:
			// Debounce period expired
			sw.handleDebounceExpired()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Source watcher error: %v", err)
		}
	}
}

// handleDebounceExpired fires the callback with the accumulated batch unless
// the watcher is paused.
func (sw *sourceWatcher) handleDebounceExpired() {
	sw.pausedMu.RLock()
	paused := sw.paused
	sw.pausedMu.RUnlock()

	if paused {
		// Keep accumulating until Resume
		return
	}

	if files := sw.drain(); len(files) > 0 && sw.callback != nil {
		sw.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (sw *sourceWatcher) resetDebounceTimer(buildCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		if !sw.debounceTimer.Stop() {
			// Timer already fired, drain the channel
			select {
			case <-sw.debounceTimer.C:
			default:
			}
		}
	}

	sw.debounceTimer = time.AfterFunc(sw.debounce, func() {
		// Non-blocking send; a pending signal is equivalent
		select {
		case buildCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (sw *sourceWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// shouldProcessEvent checks if an event should be processed based on extension.
func (sw *sourceWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}

	ext := filepath.Ext(event.Name)
	return sw.extensions[ext]
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (sw *sourceWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// The root must be watchable; subtrees may come and go
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if err := sw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
			return nil
		}

		return nil
	})
}
