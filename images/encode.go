package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	_ "image/gif"

	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Format identifies a target image encoding. Dispatch is an explicit switch
// rather than name-based lookup so an unsupported format is a compile-time
// concern, not a runtime one.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatWebP
	FormatAVIF
)

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatAVIF:
		return "avif"
	default:
		return ""
	}
}

func (f Format) String() string {
	if e := f.Ext(); e != "" {
		return e
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Fixed encode settings. These are tunables, not load-bearing constants.
const (
	jpegQuality  = 85
	webpQuality  = 85
	avifQuality  = 80
	encodeEffort = 4
)

// Encoder writes img to w in the given format. It is an interface so the
// pipeline can be exercised in tests without running real codecs.
type Encoder interface {
	Encode(w io.Writer, img image.Image, f Format) error
}

type codecEncoder struct{}

// NewEncoder returns the production encoder: stdlib JPEG/PNG plus the
// gen2brain WebP and AVIF encoders.
func NewEncoder() Encoder { return codecEncoder{} }

func (codecEncoder) Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case FormatWebP:
		return webp.Encode(w, img, webp.Options{Quality: webpQuality, Method: encodeEffort})
	case FormatAVIF:
		return avif.Encode(w, img, avif.Options{Quality: avifQuality, Speed: encodeEffort})
	default:
		return fmt.Errorf("unsupported format %v", f)
	}
}

// decodeFile reads and decodes a source image. JPEG, PNG, GIF and WebP
// decoders are registered via blank imports.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// resizeToWidth scales img down to the given width preserving aspect ratio.
// Images narrower than width are returned unchanged; we never upscale.
func resizeToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if width <= 0 || w <= width {
		return img
	}
	newH := h * width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
