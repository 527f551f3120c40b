package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestImageService_ReadImageFromBinary(t *testing.T) {
	service := NewImageService(0)

	data := encodeTestPNG(t, 64, 48)
	attachment, err := service.ReadImageFromBinary(data, "shot.png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", attachment.MimeType)
	assert.Equal(t, 64, attachment.Width)
	assert.Equal(t, 48, attachment.Height)
	assert.Equal(t, 64, attachment.SourceWidth)
	assert.Equal(t, 48, attachment.SourceHeight)

	decoded, err := base64.StdEncoding.DecodeString(attachment.Data)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestImageService_Downscale(t *testing.T) {
	service := NewImageService(100)

	attachment, err := service.ReadImageFromBinary(encodeTestPNG(t, 200, 100), "wide.png")
	require.NoError(t, err)

	assert.Equal(t, 100, attachment.Width)
	assert.Equal(t, 50, attachment.Height)
	assert.Equal(t, 200, attachment.SourceWidth)
	assert.Equal(t, 100, attachment.SourceHeight)
	assert.Equal(t, "image/png", attachment.MimeType)
}

func TestImageService_SmallImageIsNotScaled(t *testing.T) {
	service := NewImageService(1000)

	data := encodeTestPNG(t, 64, 48)
	attachment, err := service.ReadImageFromBinary(data, "small.png")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(attachment.Data)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestImageService_ReadImageFromFile(t *testing.T) {
	service := NewImageService(0)

	t.Run("reads an existing image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shot.png")
		require.NoError(t, os.WriteFile(path, encodeTestPNG(t, 10, 10), 0644))

		attachment, err := service.ReadImageFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, path, attachment.Filename)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := service.ReadImageFromFile("/nonexistent/shot.png")
		assert.Error(t, err)
	})

	t.Run("non-image data is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not-an-image.png")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

		_, err := service.ReadImageFromFile(path)
		assert.Error(t, err)
	})
}

func TestImageService_IsImageFile(t *testing.T) {
	service := NewImageService(0)

	assert.True(t, service.IsImageFile("shot.png"))
	assert.True(t, service.IsImageFile("photo.JPG"))
	assert.True(t, service.IsImageFile("file:///tmp/shot.png"))
	assert.False(t, service.IsImageFile("notes.txt"))
	assert.False(t, service.IsImageFile("archive.tar.gz"))
}
