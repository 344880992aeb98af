package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path"
	"strings"
)

func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GetFileExtNameWithDot returns the lowercase extension including the leading
// dot, with any query string stripped first, e.g. ".jpg".
func GetFileExtNameWithDot(name string) string {
	if idx := strings.IndexByte(name, '?'); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(path.Ext(name))
}
