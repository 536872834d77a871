package captioner

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Registered decoders for accepted upload formats.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"

	"altd/internal/store"
)

const jpegQuality = 90

// prepareImage decodes an upload, flattens it onto a white RGB canvas,
// downscales it so the longest side is at most maxSide (0 keeps the size)
// and re-encodes it as JPEG. Uploads whose header declares more than
// maxPixels pixels are rejected before any pixel buffer is allocated;
// maxPixels <= 0 disables the check.
func prepareImage(data []byte, maxSide, maxPixels int) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrInvalidImage("empty upload")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, ErrInvalidImage(err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, ErrInvalidImage(format + " image has no pixels")
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return Image{}, ErrInvalidImage(fmt.Sprintf("%s image is %dx%d, over the %d pixel limit", format, cfg.Width, cfg.Height, maxPixels))
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, ErrInvalidImage(err.Error())
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, ErrInvalidImage(format + " image has no pixels")
	}

	w, h := fitWithin(b.Dx(), b.Dy(), maxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, err
	}
	return Image{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  w,
		Height: h,
		Hash:   store.HashImage(data),
	}, nil
}

// fitWithin scales (w, h) down proportionally so neither side exceeds maxSide.
func fitWithin(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		if nh < 1 {
			nh = 1
		}
		return maxSide, nh
	}
	nw := w * maxSide / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSide
}
