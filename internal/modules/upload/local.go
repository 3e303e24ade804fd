package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// LocalUploader writes files to a directory on disk and serves them
// under baseURL. It does not generate resized variants; thumbnail and
// medium point at the original.
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, r io.Reader, size int64, filename, folder string) (*Result, error) {
	if size > MaxFileSize {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrTooLarge
	}

	// Content sniffing decides the type; the client's filename and
	// Content-Type header are not trusted.
	mimeType := http.DetectContentType(data)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	name := uuid.NewString() + "." + ext
	targetDir := filepath.Join(u.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(targetDir, name), data, 0o644); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s", u.baseURL, folder, name)
	result := &Result{
		URL:          url,
		ThumbnailURL: url,
		MediumURL:    url,
		Size:         int64(len(data)),
		Format:       ext,
	}

	if strings.HasPrefix(mimeType, "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			result.Width = cfg.Width
			result.Height = cfg.Height
		}
	}

	return result, nil
}
