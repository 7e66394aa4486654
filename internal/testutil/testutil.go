// Package testutil provides shared test helpers for setting up content roots.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/othala/internal/storage"
)

// TestContent creates a temporary content directory with a storage.Provider.
func TestContent(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// TestLogger returns a logger that discards all output.
func TestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
