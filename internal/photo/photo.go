// Package photo handles store photo uploads: content-type gating, unique
// filename assignment, decoding and proportional downscaling to a maximum
// width before the file is persisted. Callers must run Process to
// completion before saving the store record that references the filename.
package photo

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxWidth is the widest a stored photo may be; taller-than-wide images are
// scaled by the same factor so the aspect ratio is preserved.
const MaxWidth = 800

// ErrNotImage is returned when the uploaded file's declared content type is
// not image/*. It is checked before any decode work happens.
var ErrNotImage = errors.New("unsupported file type: not an image")

// Filename derives a collision-resistant stored filename from the declared
// content type, preserving the sub-type as the extension.
func Filename(contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	ext := strings.TrimPrefix(contentType, "image/")
	if i := strings.IndexAny(ext, ";+ "); i >= 0 {
		ext = ext[:i]
	}
	if ext == "" {
		return "", ErrNotImage
	}
	return uuid.NewString() + "." + ext, nil
}

// Process validates, decodes, resizes and writes an uploaded photo into
// dir, returning the stored filename. The declared Content-Type header is
// the gate: non-image uploads fail with ErrNotImage before the file is
// even opened.
func Process(file *multipart.FileHeader, dir string) (string, error) {
	name, err := Filename(file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if err := resizeInto(src, dst, name); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// resizeInto decodes r, scales the image down to MaxWidth when needed and
// encodes it to w in the format implied by the filename extension.
func resizeInto(r io.Reader, w io.Writer, name string) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	img = Resize(img)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpeg", ".jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	case ".gif":
		return gif.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// Resize scales an image down proportionally so its width does not exceed
// MaxWidth. Images already narrow enough are returned unchanged; nothing is
// ever upscaled.
func Resize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= MaxWidth {
		return img
	}
	h := b.Dy() * MaxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, MaxWidth, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Over, nil)
	return out
}
