package scan

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// ImageSource yields one decoded label photograph.
type ImageSource interface {
	Capture(ctx context.Context) (image.Image, error)
}

// FileSource decodes a PNG, JPEG or GIF file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// ReaderSource decodes an image from a stream, e.g. an upload body.
type ReaderSource struct {
	R io.Reader
}

func (s ReaderSource) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(s.R)
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
