package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrFileExists is returned when a write would overwrite an existing upload.
	ErrFileExists = errors.New("file already exists")
	// ErrFileNotFound is returned when the primary file for an operation is absent.
	ErrFileNotFound = errors.New("file not found")
)

// Store owns the per-user directory layout under a single local root.
// The filesystem is the source of truth for file existence; metadata records
// reference files through the paths this store resolves.
type Store struct {
	root      string
	staticDir string
}

// NewStore creates a Store rooted at root. Static resources (the default
// cover image) live under staticDir.
func NewStore(root, staticDir string) *Store {
	return &Store{root: root, staticDir: staticDir}
}

// Root returns the base directory holding all user directories.
func (s *Store) Root() string {
	return s.root
}

// UserDir returns the upload directory for a user, creating it if missing.
// MkdirAll is idempotent, so concurrent first access is safe.
func (s *Store) UserDir(userID int64) (string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("id_%d_media", userID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory %s: %w", dir, err)
	}
	return dir, nil
}

// ResolvePath joins the user directory and filename without checking
// existence. Callers check existence explicitly.
func (s *Store) ResolvePath(userID int64, filename string) string {
	return filepath.Join(s.root, fmt.Sprintf("id_%d_media", userID), filename)
}

// CoverPath returns the sibling cover-art path for a media filename:
// <name-without-ext>_cover.jpg in the same user directory.
func (s *Store) CoverPath(userID int64, filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(s.root, fmt.Sprintf("id_%d_media", userID), base+"_cover.jpg")
}

// DefaultCoverPath returns the static fallback cover resource.
func (s *Store) DefaultCoverPath() string {
	return filepath.Join(s.staticDir, "default_cover.jpg")
}

// WriteFile persists uploaded bytes as the user's filename. The write goes
// through a temp file in the same directory followed by a rename, so a
// concurrent reader of the target path never observes a partial file.
// Returns ErrFileExists if the target already exists; uploads never overwrite.
func (s *Store) WriteFile(userID int64, filename string, r io.Reader) (string, error) {
	dir, err := s.UserDir(userID)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, filename)
	if _, err := os.Stat(target); err == nil {
		return "", ErrFileExists
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat %s: %w", target, err)
	}

	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write upload bytes: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename is atomic within the directory. Two racing uploads of the same
	// filename both pass the Stat above at worst; last rename wins with a
	// complete file either way, and the duplicate is rejected at the record
	// layer by the (user_id, title) unique constraint.
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move upload into place: %w", err)
	}
	return target, nil
}

// WriteCover persists extracted cover-art bytes as the sibling cover file.
// Covers are derived data, so unlike uploads they may be overwritten.
func (s *Store) WriteCover(userID int64, filename string, data []byte) (string, error) {
	dir, err := s.UserDir(userID)
	if err != nil {
		return "", err
	}

	cover := s.CoverPath(userID, filename)
	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover bytes: %w", err)
	}
	if err := os.Rename(tmp, cover); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move cover into place: %w", err)
	}
	return cover, nil
}

// DeleteFile removes the user's file and, if present, its paired cover file.
// Returns ErrFileNotFound when the primary file does not exist.
func (s *Store) DeleteFile(userID int64, filename string) error {
	target := s.ResolvePath(userID, filename)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return ErrFileNotFound
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			// Lost a race with another deleter; same outcome.
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to remove %s: %w", target, err)
	}

	cover := s.CoverPath(userID, filename)
	if err := os.Remove(cover); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cover %s: %w", cover, err)
	}
	return nil
}

// RenameFile renames a user's file (and its cover sibling, if any) to keep
// the store consistent with a retitled record. Returns ErrFileNotFound when
// the source is absent and ErrFileExists when the destination is taken.
func (s *Store) RenameFile(userID int64, oldName, newName string) error {
	src := s.ResolvePath(userID, oldName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return ErrFileNotFound
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	dst := s.ResolvePath(userID, newName)
	if _, err := os.Stat(dst); err == nil {
		return ErrFileExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename %s: %w", src, err)
	}

	oldCover := s.CoverPath(userID, oldName)
	if _, err := os.Stat(oldCover); err == nil {
		if err := os.Rename(oldCover, s.CoverPath(userID, newName)); err != nil {
			return fmt.Errorf("failed to rename cover %s: %w", oldCover, err)
		}
	}
	return nil
}

// Exists reports whether the path currently exists. Best-effort: the answer
// can be stale by the time the caller acts on it.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
