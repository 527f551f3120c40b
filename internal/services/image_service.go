package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	logger "github.com/bluespot/cli/internal/logger"
)

// ImageAttachment is a base64-encoded image ready for the model request.
// Width and Height are the encoded pixel dimensions; SourceWidth and
// SourceHeight are the dimensions before any downscaling, so detections on a
// downscaled upload can be mapped back to source pixels.
type ImageAttachment struct {
	Data         string
	MimeType     string
	Filename     string
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
}

// ImageService handles image loading, base64 encoding and downscaling of
// oversized captures before they are sent to the model.
type ImageService struct {
	maxWidth int
}

// NewImageService creates an image service. maxWidth bounds the pixel width
// of attachments; zero disables downscaling.
func NewImageService(maxWidth int) *ImageService {
	return &ImageService{maxWidth: maxWidth}
}

// ReadImageFromFile reads an image from a file path and returns it as a base64 attachment
func (s *ImageService) ReadImageFromFile(filePath string) (*ImageAttachment, error) {
	filePath = s.normalizeFilePath(filePath)

	imageData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return s.ReadImageFromBinary(imageData, filePath)
}

// ReadImageFromBinary reads an image from binary data and returns it as a base64 attachment
func (s *ImageService) ReadImageFromBinary(imageData []byte, filename string) (*ImageAttachment, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to detect image format: %w", err)
	}
	sourceWidth, sourceHeight := cfg.Width, cfg.Height

	if s.maxWidth > 0 && cfg.Width > s.maxWidth {
		scaled, err := s.downscale(imageData)
		if err != nil {
			logger.Warn("Downscaling failed, sending original image", "error", err)
		} else {
			imageData = scaled
			format = "png"
			cfg, _, _ = image.DecodeConfig(bytes.NewReader(imageData))
		}
	}

	return &ImageAttachment{
		Data:         base64.StdEncoding.EncodeToString(imageData),
		MimeType:     fmt.Sprintf("image/%s", format),
		Filename:     filename,
		Width:        cfg.Width,
		Height:       cfg.Height,
		SourceWidth:  sourceWidth,
		SourceHeight: sourceHeight,
	}, nil
}

// IsImageFile checks if a file is a supported image format
func (s *ImageService) IsImageFile(filePath string) bool {
	filePath = s.normalizeFilePath(filePath)
	ext := strings.ToLower(filepath.Ext(filePath))

	supportedExts := map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
	}

	return supportedExts[ext]
}

// downscale re-renders the image at maxWidth, preserving aspect, as PNG.
func (s *ImageService) downscale(imageData []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	height := bounds.Dy() * s.maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode scaled image: %w", err)
	}

	logger.Debug("Downscaled capture", "from", bounds.Dx(), "to", s.maxWidth)
	return buf.Bytes(), nil
}

// normalizeFilePath converts file:// URLs to regular paths
func (s *ImageService) normalizeFilePath(filePath string) string {
	if strings.HasPrefix(filePath, "file://") {
		parsedURL, err := url.Parse(filePath)
		if err != nil {
			return filePath
		}
		return parsedURL.Path
	}
	return filePath
}
