package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/wayfarer-app/wayfarer/internal/models"

	_ "image/gif"
	_ "image/png"
)

// Compressor normalizes an arbitrary input image into a bounded blob
// before transmission.
type Compressor interface {
	Compress(ctx context.Context, file models.SourceFile) ([]byte, error)
}

// ImageCompressor re-encodes images as JPEG within a byte and dimension
// budget. Identical input and bounds always produce identical output.
type ImageCompressor struct {
	// MaxBytes is the upper bound on the encoded blob size.
	MaxBytes int64
	// MaxDimension is the upper bound on width and height in pixels.
	MaxDimension int
}

// JPEG qualities tried in order until the blob fits MaxBytes.
var jpegQualities = []int{85, 75, 65, 50, 35, 25}

// Compress decodes the file, downscales it to fit MaxDimension, and
// re-encodes at decreasing JPEG quality until the result fits MaxBytes.
// When no quality step fits, the image is halved and the quality ladder
// retried, so the stage always produces a bounded blob for decodable
// input. Undecodable input fails with a CompressionError naming the file.
func (c *ImageCompressor) Compress(ctx context.Context, file models.SourceFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(file.Content))
	if err != nil {
		return nil, &CompressionError{Filename: file.Name, Err: err}
	}

	img = fitDimension(img, c.MaxDimension)

	for {
		for _, q := range jpegQualities {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
				return nil, &CompressionError{Filename: file.Name, Err: err}
			}
			if int64(buf.Len()) <= c.MaxBytes {
				return buf.Bytes(), nil
			}
		}

		b := img.Bounds()
		if b.Dx() <= 1 || b.Dy() <= 1 {
			return nil, &CompressionError{
				Filename: file.Name,
				Err:      fmt.Errorf("cannot fit image into %d bytes", c.MaxBytes),
			}
		}
		img = scale(img, b.Dx()/2, b.Dy()/2)
	}
}

// fitDimension downscales img so that neither side exceeds maxDim,
// preserving aspect ratio. Images already within bounds pass through.
func fitDimension(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	return scale(img, w, h)
}

func scale(img image.Image, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
