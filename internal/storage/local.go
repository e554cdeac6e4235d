package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"delivery-manager/internal/domain"
	"delivery-manager/pkg/utils"
)

// Allowlist mirrors the image formats the mobile clients produce.
var (
	allowedExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	}
	allowedMIME = map[string]struct{}{
		"image/jpeg": {}, "image/jpg": {}, "image/png": {}, "image/gif": {},
	}
)

// LocalStore writes uploads to a directory served statically under /uploads.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStore(dir, baseURL string, maxSizeMB int) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: int64(maxSizeMB) << 20,
	}, nil
}

func (s *LocalStore) MaxBytes() int64 { return s.maxBytes }

func (s *LocalStore) SaveImage(orderID, filename, contentType string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", domain.ErrUnsupportedImage
	}
	if contentType != "" {
		if _, ok := allowedMIME[contentType]; !ok {
			return "", domain.ErrUnsupportedImage
		}
	}
	if size > s.maxBytes {
		return "", domain.ErrImageTooLarge
	}

	name := utils.NewID() + ext
	dst := filepath.Join(s.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// size 来自 multipart header，拷贝时再设一道上限
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if n > s.maxBytes {
		_ = os.Remove(dst)
		return "", domain.ErrImageTooLarge
	}
	return s.baseURL + "/uploads/" + name, nil
}
