package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is the on-disk home for uploaded assets: project images under the
// base images directory, blog cover images under its blog/ subdirectory, and
// the single resume document under the documents directory.
type Store struct {
	imagesDir    string
	documentsDir string
	resumeName   string
}

// New creates the directory tree if it does not exist yet.
func New(imagesDir, documentsDir, resumeName string) (*Store, error) {
	for _, dir := range []string{imagesDir, filepath.Join(imagesDir, "blog"), documentsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return &Store{imagesDir: imagesDir, documentsDir: documentsDir, resumeName: resumeName}, nil
}

// ImagePath returns the absolute path of a stored project image.
func (s *Store) ImagePath(name string) string {
	return filepath.Join(s.imagesDir, name)
}

// BlogImagePath returns the absolute path of a stored blog cover image.
func (s *Store) BlogImagePath(name string) string {
	return filepath.Join(s.imagesDir, "blog", name)
}

// ResumePath returns the absolute path of the resume document.
func (s *Store) ResumePath() string {
	return filepath.Join(s.documentsDir, s.resumeName)
}

// ResumeName returns the fixed filename the resume is served under.
func (s *Store) ResumeName() string {
	return s.resumeName
}

// WriteImage stores a project image under name.
func (s *Store) WriteImage(name string, r io.Reader) error {
	return writeFile(s.ImagePath(name), r)
}

// WriteBlogImage stores a blog cover image under name.
func (s *Store) WriteBlogImage(name string, r io.Reader) error {
	return writeFile(s.BlogImagePath(name), r)
}

// RemoveImage deletes a stored project image. Removing a name that is
// already absent is a no-op.
func (s *Store) RemoveImage(name string) error {
	return removeFile(s.ImagePath(name))
}

// RemoveBlogImage deletes a stored blog cover image, tolerating absence.
func (s *Store) RemoveBlogImage(name string) error {
	return removeFile(s.BlogImagePath(name))
}

// Exists reports whether path currently holds a file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SaveResume replaces the resume document atomically: the new content is
// written to a temporary name and renamed over the target, so a reader never
// observes a half-written document.
func (s *Store) SaveResume(r io.Reader) error {
	target := s.ResumePath()
	tmp, err := os.CreateTemp(s.documentsDir, s.resumeName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary resume file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write resume: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close resume file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace resume: %w", err)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close file %s: %w", path, err)
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}
