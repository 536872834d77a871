package captioner

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"strings"
	"testing"

	"altd/internal/store"
)

func TestPrepareImage_FlattensToJPEG(t *testing.T) {
	data := pngBytes(t, 10, 6)
	img, err := prepareImage(data, 0, 0)
	if err != nil {
		t.Fatalf("prepareImage: %v", err)
	}
	if img.MIME != "image/jpeg" || img.Width != 10 || img.Height != 6 {
		t.Fatalf("unexpected: %+v", img)
	}
	if img.Hash != store.HashImage(data) {
		t.Fatalf("hash should be of the original upload")
	}
	dec, err := jpeg.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("output not jpeg: %v", err)
	}
	// Half-transparent red over white is roughly (255, 127, 127).
	r, g, _, _ := dec.At(5, 3).RGBA()
	if r>>8 < 240 || g>>8 < 100 || g>>8 > 160 {
		t.Fatalf("pixel not flattened over white: r=%d g=%d", r>>8, g>>8)
	}
}

func TestPrepareImage_Downscales(t *testing.T) {
	img, err := prepareImage(pngBytes(t, 200, 50), 100, 0)
	if err != nil {
		t.Fatalf("prepareImage: %v", err)
	}
	if img.Width != 100 || img.Height != 25 {
		t.Fatalf("size: %dx%d", img.Width, img.Height)
	}
}

func TestPrepareImage_GIF(t *testing.T) {
	var buf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 3, 3), []color.Color{color.Black, color.White})
	if err := gif.Encode(&buf, pal, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	if _, err := prepareImage(buf.Bytes(), 1024, 0); err != nil {
		t.Fatalf("gif: %v", err)
	}
}

func TestPrepareImage_Invalid(t *testing.T) {
	if _, err := prepareImage([]byte("GIF89a-but-not-really"), 0, 0); !IsInvalidImage(err) {
		t.Fatalf("want invalid image, got %v", err)
	}
	if _, err := prepareImage(nil, 0, 0); !IsInvalidImage(err) {
		t.Fatalf("want invalid image for empty input, got %v", err)
	}
}

// pngHeaderOnly returns a PNG that declares w x h RGBA pixels but carries no
// image data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(ihdr)))
	chunk.WriteString("IHDR")
	chunk.Write(ihdr)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(chunk.Bytes()[4:]))
	buf.Write(chunk.Bytes())
	return buf.Bytes()
}

func TestPrepareImage_PixelBudget(t *testing.T) {
	_, err := prepareImage(pngHeaderOnly(60000, 60000), 1024, defaultMaxImagePixels)
	if !IsInvalidImage(err) || !strings.Contains(err.Error(), "pixel limit") {
		t.Fatalf("want pixel limit rejection from the header alone, got %v", err)
	}
	if _, err := prepareImage(pngBytes(t, 20, 20), 0, 399); !IsInvalidImage(err) {
		t.Fatalf("want rejection above a small budget, got %v", err)
	}
	if _, err := prepareImage(pngBytes(t, 20, 20), 0, 400); err != nil {
		t.Fatalf("image at the budget should pass: %v", err)
	}
}

func TestNewWithConfig_PixelBudgetDefaults(t *testing.T) {
	if m := NewWithConfig(Config{}); m.maxImagePixels != defaultMaxImagePixels {
		t.Fatalf("default budget %d", m.maxImagePixels)
	}
	if m := NewWithConfig(Config{MaxImagePixels: -1}); m.maxImagePixels != 0 {
		t.Fatalf("negative should disable, got %d", m.maxImagePixels)
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, max, ww, wh int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{400, 100, 100, 100, 25},
		{100, 400, 100, 25, 100},
		{5000, 1, 100, 100, 1},
	}
	for _, c := range cases {
		w, h := fitWithin(c.w, c.h, c.max)
		if w != c.ww || h != c.wh {
			t.Errorf("fitWithin(%d,%d,%d) = %d,%d want %d,%d", c.w, c.h, c.max, w, h, c.ww, c.wh)
		}
	}
}
