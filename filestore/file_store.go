package filestore

import (
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/valenstagram/valenstagram-backend/utils"
)

// FileStore persists uploaded pictures (posts and profile avatars) and maps
// stored keys back to servable URLs.
type FileStore interface {
	Store(body io.Reader, fileName string) (key string, err error)
	GetUrlFromKey(key string) string
	CleanUp()
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var ErrUnsupportedFileType = errors.New("unsupported file type")

// generateKey builds a collision-free storage key preserving the original
// extension. The extension must be in the picture whitelist.
func generateKey(fileName string) (string, error) {
	ext := utils.GetFileExtNameWithDot(fileName)
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFileType
	}

	key, err := utils.TextToMd5Hash(uuid.New().String() + fileName)
	if err != nil {
		return "", err
	}
	if len(key) == 0 {
		return "", errors.New("generated empty storage key, invalid")
	}
	return key + ext, nil
}
