// Package storage defines the content-root file-system abstraction.
package storage

import "github.com/starford/othala/internal/models"

// Provider is the interface for content-root file operations. All paths are
// relative to the content root. Every operation reports failure explicitly;
// nothing retries.
type Provider interface {
	// List returns metadata for every .md file under dir (recursively).
	List(dir string) ([]models.FileInfo, error)
	// Dirs returns every directory under dir (recursively), root excluded,
	// as forward-slash relative paths.
	Dirs(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Create writes content to path, failing if the file already exists.
	Create(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// CreateDir creates the directory at path, including parents.
	CreateDir(path string) error
	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error
}
