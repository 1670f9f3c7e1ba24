// Package media validates evidence screenshots before they reach object
// storage. Uploads are decoded, never transcoded; anything that does not
// parse as a known image format is rejected.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

var (
	ErrImageTooLarge    = errors.New("media: image exceeds maximum size")
	ErrImageUnreadable  = errors.New("media: data does not decode as an image")
	ErrImageEmptyUpload = errors.New("media: empty upload")
)

var formatContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type Image struct {
	Bytes       []byte
	ContentType string
	Width       int
	Height      int
}

// ValidateImage reads at most maxBytes from the upload and checks that it
// decodes as jpeg, png, gif or webp.
func ValidateImage(r io.Reader, maxBytes int64) (*Image, error) {
	if r == nil {
		return nil, ErrImageEmptyUpload
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrImageEmptyUpload
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrImageUnreadable
	}
	contentType, ok := formatContentTypes[format]
	if !ok {
		return nil, ErrImageUnreadable
	}

	return &Image{
		Bytes:       data,
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
