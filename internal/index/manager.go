package index

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// UpdateFunc receives the complete current snapshot after every index
// change. Subscribers reconcile against the whole snapshot; there is no
// diff contract.
type UpdateFunc func(models.Snapshot)

// Manager owns the in-memory index for one content root and keeps it live
// via filesystem events. All event handling runs on a single goroutine, so
// rescans queue and never overlap; the latest result wins.
type Manager struct {
	store    storage.Provider
	root     string
	scanner  *Scanner
	logger   *slog.Logger
	onUpdate UpdateFunc

	mu   sync.RWMutex
	snap models.Snapshot

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates an uninitialized manager. onUpdate may be nil.
func NewManager(store storage.Provider, root string, logger *slog.Logger, onUpdate UpdateFunc) *Manager {
	return &Manager{
		store:    store,
		root:     root,
		scanner:  NewScanner(store, logger),
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Initialize runs the first full scan, starts watching the content root
// recursively, and notifies the subscriber once with the initial snapshot.
// A scan failure here is fatal: no partial index is ever published.
func (m *Manager) Initialize(ctx context.Context) error {
	snap, err := m.scanner.Scan()
	if err != nil {
		return fmt.Errorf("index: initial scan: %w", err)
	}
	m.replace(*snap)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("index: start watcher: %w", err)
	}
	if err := addDirsRecursive(w, m.root); err != nil {
		w.Close()
		return fmt.Errorf("index: watch content root: %w", err)
	}
	m.watcher = w
	m.done = make(chan struct{})
	go m.run(ctx)

	m.logger.Info("index: watching", slog.String("root", m.root))
	m.notify()
	return nil
}

// Snapshot returns the current index snapshot.
func (m *Manager) Snapshot() models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Close stops the watcher. No events are processed after Close returns; the
// stored snapshot stays readable but inert.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.watcher != nil {
			err = m.watcher.Close()
			<-m.done
		}
	})
	return err
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("index: watcher stopped")
			return
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handle(ev)
		case watchErr, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error("index: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// handle processes one filesystem event. Adds and removals of markdown files
// trigger a full rescan (simplicity over incremental patching); a write to
// _config.json reloads just the config. Writes to ordinary markdown files
// are content edits made through the write-back path and need no rescan --
// the writer already holds the authoritative content.
func (m *Manager) handle(ev fsnotify.Event) {
	name := ev.Name
	base := filepath.Base(name)

	switch {
	case ev.Op&fsnotify.Create != 0:
		if info, statErr := os.Stat(name); statErr == nil && info.IsDir() {
			if addErr := addDirsRecursive(m.watcher, name); addErr != nil {
				m.logger.Warn("index: add new dir failed",
					slog.String("path", name),
					slog.String("error", addErr.Error()))
			}
			m.rescan()
			return
		}
		// Atomic writes surface as a rename, so a config update arrives
		// here as a Create rather than a Write.
		if base == ConfigFileName {
			m.reloadConfig()
			return
		}
		if strings.HasSuffix(base, ".md") {
			m.rescan()
		}

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// A removed directory is indistinguishable from an extensionless
		// file by name alone; rescan for both.
		if strings.HasSuffix(base, ".md") || filepath.Ext(base) == "" {
			m.rescan()
		}

	case ev.Op&fsnotify.Write != 0:
		if base == ConfigFileName {
			m.reloadConfig()
		}
	}
}

// rescan rebuilds the whole index from disk and publishes the new snapshot.
// A failed rescan keeps the previous snapshot; stale beats broken.
func (m *Manager) rescan() {
	snap, err := m.scanner.Scan()
	if err != nil {
		m.logger.Warn("index: rescan failed, keeping previous snapshot",
			slog.String("error", err.Error()))
		return
	}
	m.replace(*snap)
	m.logger.Debug("index: rescanned", slog.Int("nodes", len(snap.Nodes)))
	m.notify()
}

// reloadConfig re-reads _config.json only, leaving the node set untouched.
func (m *Manager) reloadConfig() {
	cfg := m.scanner.loadConfig()
	m.mu.Lock()
	m.snap.Config = cfg
	m.mu.Unlock()
	m.logger.Info("index: config reloaded", slog.String("title", cfg.Title))
	m.notify()
}

func (m *Manager) replace(snap models.Snapshot) {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}

func (m *Manager) notify() {
	if m.onUpdate == nil {
		return
	}
	m.onUpdate(m.Snapshot())
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
