package services

import (
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore manages uploaded image files on disk, independent of the
// post documents that reference them. References are paths relative to
// the store's base directory, stored verbatim on the post.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir}, nil
}

// Store writes the image bytes under a fresh name and returns the
// reference to persist on the post. originalName only contributes its
// extension.
func (s *ImageStore) Store(data []byte, originalName string) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Delete removes the referenced image. Best effort: a missing file or
// any other failure is logged and never reported to the caller, so a
// dangling reference can never block a post mutation.
func (s *ImageStore) Delete(ref string) {
	if ref == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(ref))); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to delete image %s: %v", ref, err)
		}
	}
}

func (s *ImageStore) Dir() string {
	return s.dir
}
