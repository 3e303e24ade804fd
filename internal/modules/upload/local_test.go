package upload

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestLocalUploader(t *testing.T) {
	uploader, err := NewLocalUploader(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	t.Run("stores a png and reads its dimensions", func(t *testing.T) {
		data := pngBytes(t, 4, 3)

		result, err := uploader.Upload(context.Background(), bytes.NewReader(data), int64(len(data)), "photo.png", "products")
		require.NoError(t, err)

		assert.Contains(t, result.URL, "/products/")
		assert.Equal(t, "png", result.Format)
		assert.Equal(t, 4, result.Width)
		assert.Equal(t, 3, result.Height)
		assert.EqualValues(t, len(data), result.Size)
	})

	t.Run("type comes from content, not filename", func(t *testing.T) {
		data := []byte("just plain text pretending to be an image")
		_, err := uploader.Upload(context.Background(), bytes.NewReader(data), int64(len(data)), "fake.png", "products")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("declared size over the cap is refused", func(t *testing.T) {
		data := pngBytes(t, 1, 1)
		_, err := uploader.Upload(context.Background(), bytes.NewReader(data), MaxFileSize+1, "big.png", "products")
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}
