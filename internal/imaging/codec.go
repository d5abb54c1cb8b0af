// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging decodes raster images for page assembly and normalizes
// them to an opaque colour model. The decoder is chosen from the file
// content, not its name, so a mislabelled file still decodes or fails with
// a clear reason.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrDecode is wrapped by every Decode failure.
var ErrDecode = errors.New("decoding image")

// decoder pairs a MIME type with the function that decodes it.
type decoder struct {
	mime   string
	decode func(io.Reader) (image.Image, error)
}

var decoders = []decoder{
	{mime: "image/jpeg", decode: jpeg.Decode},
	{mime: "image/png", decode: png.Decode},
	{mime: "image/webp", decode: webp.Decode},
}

// Codec decodes images and recycles the RGBA buffers it allocates when
// flattening. It is safe for concurrent use.
type Codec struct {
	pool sync.Pool
	live atomic.Int64
}

// NewCodec returns a ready Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode reads the image at path. The content type is sniffed and must be
// JPEG, PNG or WebP. The returned image counts as live until Release.
func (c *Codec) Decode(path string) (image.Image, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, name, err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: sniffing content: %w", ErrDecode, name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, name, err)
	}

	for _, d := range decoders {
		if !mt.Is(d.mime) {
			continue
		}
		img, err := d.decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrDecode, name, err)
		}
		c.live.Add(1)
		return img, nil
	}
	return nil, fmt.Errorf("%w %s: unsupported content type %s", ErrDecode, name, mt.String())
}

// Opaque returns img with any alpha channel flattened onto white. Images
// that are already opaque are returned unchanged. Opaque takes ownership
// of img: when a new image is returned the caller must use and Release
// that one instead.
func (c *Codec) Opaque(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	b := img.Bounds()
	dst := c.rgba(b)
	xdraw.Draw(dst, b, image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(dst, b, img, b.Min, xdraw.Over)

	if rgba, ok := img.(*image.RGBA); ok {
		c.pool.Put(rgba)
	}
	return dst
}

// Release marks img as no longer used. RGBA buffers go back to the pool
// for the next flatten; other images are left to the garbage collector.
func (c *Codec) Release(img image.Image) {
	if img == nil {
		return
	}
	c.live.Add(-1)
	if rgba, ok := img.(*image.RGBA); ok {
		c.pool.Put(rgba)
	}
}

// Live returns the number of decoded images not yet released.
func (c *Codec) Live() int {
	return int(c.live.Load())
}

// rgba returns an RGBA image covering r, reusing a pooled buffer when one
// is large enough.
func (c *Codec) rgba(r image.Rectangle) *image.RGBA {
	n := 4 * r.Dx() * r.Dy()
	if v, ok := c.pool.Get().(*image.RGBA); ok && cap(v.Pix) >= n {
		v.Pix = v.Pix[:n]
		v.Stride = 4 * r.Dx()
		v.Rect = r
		return v
	}
	return image.NewRGBA(r)
}
