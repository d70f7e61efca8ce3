package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore persists blobs as flat files under a single directory. It is
// the durability floor: every upload lands here before any remote attempt.
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &LocalStore{BaseDir: baseDir}, nil
}

// Save streams content to <BaseDir>/<name> and reports the path and the
// number of bytes written.
func (s *LocalStore) Save(reader io.Reader, name string) (string, int64, error) {
	path := filepath.Join(s.BaseDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, reader)
	if err != nil {
		return "", 0, err
	}

	return path, written, nil
}

func (s *LocalStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// LocalFile describes one stored file as reconstructed from the directory
// listing. The store keeps no structured metadata of its own.
type LocalFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List reconstructs the store's contents from the directory.
func (s *LocalStore) List() ([]LocalFile, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return nil, err
	}

	var files []LocalFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, LocalFile{
			Name:    entry.Name(),
			Path:    filepath.Join(s.BaseDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// FindByID linearly scans the directory for the first filename containing
// id and returns its path. The scan is bounded to the directory's current
// contents; there is no index.
func (s *LocalStore) FindByID(id string) (string, bool, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return "", false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), id) {
			return filepath.Join(s.BaseDir, entry.Name()), true, nil
		}
	}
	return "", false, nil
}
