package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Store saves an uploaded file and returns the public URL under which it is
// served. The order path only persists the returned reference.
type Store interface {
	Save(fh *multipart.FileHeader, subdir string) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^\w\-_\.]`)

// DiskStore writes uploads under a local directory served statically by the
// HTTP server.
type DiskStore struct {
	dir           string
	publicBaseURL string
}

func NewDiskStore(dir, publicBaseURL string) *DiskStore {
	return &DiskStore{dir: dir, publicBaseURL: publicBaseURL}
}

func (s *DiskStore) Save(fh *multipart.FileHeader, subdir string) (string, error) {
	cleanName := unsafeChars.ReplaceAllString(fh.Filename, "_")
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), cleanName)

	saveDir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(saveDir, filename))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.publicBaseURL, subdir, filename), nil
}
