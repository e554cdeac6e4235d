package domain

import (
	"errors"
	"io"
)

// BlobStore keeps uploaded image files and hands back a retrievable path.
type BlobStore interface {
	SaveImage(orderID, filename, contentType string, r io.Reader, size int64) (string, error)
}

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)
