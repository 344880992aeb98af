package filestore

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalFileStore writes uploads to a directory on disk, served back through
// the picture endpoint. Default store outside of S3-backed deployments.
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if dir == "" {
		dir = "public/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create upload dir")
	}
	return &LocalFileStore{dir: dir}, nil
}

func (l *LocalFileStore) Store(body io.Reader, fileName string) (string, error) {
	key, err := generateKey(fileName)
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(l.dir, key))
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload file")
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", errors.Wrap(err, "failed to write upload file")
	}
	return key, nil
}

func (l *LocalFileStore) GetUrlFromKey(key string) string {
	return "/user/picture/" + key
}

// Path resolves a stored key to its on-disk location, rejecting keys that
// escape the upload directory.
func (l *LocalFileStore) Path(key string) (string, error) {
	if key != filepath.Base(key) {
		return "", errors.New("invalid file key")
	}
	return filepath.Join(l.dir, key), nil
}

func (l *LocalFileStore) CleanUp() {
	// files are kept; the directory is owned by the deployment
}
