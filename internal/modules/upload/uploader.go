package upload

import (
	"context"
	"errors"
	"io"
)

const MaxFileSize = 50 << 20 // 50MB

var (
	ErrTooLarge        = errors.New("file exceeds the 50MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Result describes a stored file. Thumbnail and medium variants may
// equal the original URL when the backend does not resize.
type Result struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	MediumURL    string `json:"medium_url,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Size         int64  `json:"size"`
	Format       string `json:"format"`
}

// Uploader stores a file under a logical folder and returns where it
// landed. Implementations own naming and variant generation.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, filename, folder string) (*Result, error)
}
