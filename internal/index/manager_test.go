package index

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/testutil"
)

// eventually polls cond until it returns true or the deadline passes.
func eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal(msg)
}

func startManager(t *testing.T, onUpdate UpdateFunc) (*Manager, *scanFixture) {
	t.Helper()
	root, store := testutil.TestContent(t)

	mgr := NewManager(store, root, testutil.TestLogger(t), onUpdate)
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr, &scanFixture{t: t, store: store}
}

func nodeCount(m *Manager) int {
	n := 0
	for _, node := range m.Snapshot().Nodes {
		if !node.IsFolder {
			n++
		}
	}
	return n
}

func TestManagerInitialScan(t *testing.T) {
	root, store := testutil.TestContent(t)
	_ = store.Write("existing.md", []byte("---\ntitle: Existing\n---\nx"))

	mgr := NewManager(store, root, testutil.TestLogger(t), nil)
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer mgr.Close()

	if got := nodeCount(mgr); got != 1 {
		t.Errorf("file nodes = %d, want 1", got)
	}
}

func TestManagerLiveAdd(t *testing.T) {
	mgr, f := startManager(t, nil)

	if got := nodeCount(mgr); got != 0 {
		t.Fatalf("initial file nodes = %d, want 0", got)
	}

	f.write("new-note.md", "---\ntitle: New Note\n---\nBody")

	eventually(t, 3*time.Second, func() bool {
		snap := mgr.Snapshot()
		for _, n := range snap.Nodes {
			if n.Title == "New Note" {
				return true
			}
		}
		return false
	}, "added note never appeared in the index")

	if got := nodeCount(mgr); got != 1 {
		t.Errorf("file nodes = %d, want 1", got)
	}
}

func TestManagerLiveDelete(t *testing.T) {
	root, store := testutil.TestContent(t)
	_ = store.Write("gone.md", []byte("---\ntitle: Gone\n---\nx"))

	mgr := NewManager(store, root, testutil.TestLogger(t), nil)
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer mgr.Close()

	if got := nodeCount(mgr); got != 1 {
		t.Fatalf("initial file nodes = %d, want 1", got)
	}

	if err := store.Delete("gone.md"); err != nil {
		t.Fatal(err)
	}

	eventually(t, 3*time.Second, func() bool {
		return nodeCount(mgr) == 0
	}, "deleted note never left the index")
}

func TestManagerConfigReload(t *testing.T) {
	var notifications atomic.Int64
	mgr, f := startManager(t, func(models.Snapshot) {
		notifications.Add(1)
	})

	// Initialize fires one notification with the initial snapshot.
	eventually(t, time.Second, func() bool {
		return notifications.Load() >= 1
	}, "no initial notification")

	f.write(ConfigFileName, `{"title": "New Wiki Title"}`)

	eventually(t, 3*time.Second, func() bool {
		return mgr.Snapshot().Config.Title == "New Wiki Title"
	}, "config title never updated")

	if notifications.Load() < 2 {
		t.Errorf("notifications = %d, want at least 2", notifications.Load())
	}
}

func TestManagerNewDirectoryWatched(t *testing.T) {
	mgr, f := startManager(t, nil)

	// Creating a nested note forces a new directory plus a file inside it.
	f.write("sub/inner.md", "---\ntitle: Inner\n---\nx")

	eventually(t, 3*time.Second, func() bool {
		snap := mgr.Snapshot()
		var haveFolder, haveFile bool
		for _, n := range snap.Nodes {
			if n.ID == "sub" && n.IsFolder {
				haveFolder = true
			}
			if n.ID == "sub/inner" && !n.IsFolder {
				haveFile = true
			}
		}
		return haveFolder && haveFile
	}, "nested note and folder never indexed")
}

func TestManagerCloseIdempotent(t *testing.T) {
	mgr, _ := startManager(t, nil)
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	// Snapshot stays readable after Close.
	_ = mgr.Snapshot()
}
