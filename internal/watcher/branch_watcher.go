package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// branchWatcher implements BranchWatcher by monitoring .git/HEAD.
type branchWatcher struct {
	gitDir     string
	headPath   string
	watcher    *fsnotify.Watcher
	lastBranch string
	stopCh     chan struct{}
	doneCh     chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex // Protects lastBranch
}

// NewBranchWatcher creates a BranchWatcher for the given .git directory.
// Returns an error if .git/HEAD does not exist or cannot be read.
func NewBranchWatcher(gitDir string) (BranchWatcher, error) {
	headPath := filepath.Join(gitDir, "HEAD")

	if _, err := os.Stat(headPath); err != nil {
		return nil, fmt.Errorf("cannot access .git/HEAD: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	initialBranch, err := readBranch(headPath)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to read initial branch: %w", err)
	}

	return &branchWatcher{
		gitDir:     gitDir,
		headPath:   headPath,
		watcher:    fsWatcher,
		lastBranch: initialBranch,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Start begins monitoring .git/HEAD for changes.
func (bw *branchWatcher) Start(ctx context.Context, callback func(oldBranch, newBranch string)) error {
	// Watch the directory rather than HEAD itself: git replaces the file,
	// and a direct watch would be lost on the first switch
	if err := bw.watcher.Add(bw.gitDir); err != nil {
		return fmt.Errorf("failed to watch .git directory: %w", err)
	}

	go bw.watch(ctx, callback)

	return nil
}

// Stop stops the watcher and cleans up resources.
func (bw *branchWatcher) Stop() error {
	var err error
	bw.stopOnce.Do(func() {
		close(bw.stopCh)
		<-bw.doneCh // Wait for goroutine to finish
		err = bw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (bw *branchWatcher) watch(ctx context.Context, callback func(oldBranch, newBranch string)) {
	defer close(bw.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case <-bw.stopCh:
			return

		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}

			if event.Name != bw.headPath {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			// A removed HEAD is transient during a switch; wait for recreation
			if event.Op&fsnotify.Remove != 0 {
				continue
			}

			newBranch, err := readBranch(bw.headPath)
			if err != nil {
				log.Printf("Warning: failed to read .git/HEAD: %v", err)
				continue
			}

			bw.mu.RLock()
			oldBranch := bw.lastBranch
			bw.mu.RUnlock()

			if newBranch != oldBranch {
				bw.mu.Lock()
				bw.lastBranch = newBranch
				bw.mu.Unlock()

				// Fire callback with panic recovery
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Warning: branch watcher callback panic: %v", r)
						}
					}()
					callback(oldBranch, newBranch)
				}()
			}

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Branch watcher error: %v", err)
		}
	}
}

// readBranch reads and parses the current branch from .git/HEAD.
func readBranch(headPath string) (string, error) {
	content, err := os.ReadFile(headPath)
	if err != nil {
		return "", err
	}
	return parseBranch(content), nil
}

// parseBranch parses a branch name from HEAD file content.
// Returns "detached" for a detached HEAD.
func parseBranch(content []byte) string {
	line := strings.TrimSpace(string(content))

	// Symbolic ref: "ref: refs/heads/branch-name"
	if strings.HasPrefix(line, "ref: refs/heads/") {
		branchName := strings.TrimPrefix(line, "ref: refs/heads/")
		return strings.TrimSpace(branchName)
	}

	// A bare 40-character hex string is a detached HEAD
	if len(line) == 40 && isHexString(line) {
		return "detached"
	}

	// Fallback: treat as branch name (shouldn't normally happen)
	return strings.TrimSpace(line)
}

// isHexString checks if a string contains only hexadecimal characters.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
