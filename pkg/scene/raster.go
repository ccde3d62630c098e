package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// MaxThumbnailSide bounds both sides of a rasterized thumbnail, in pixels.
const MaxThumbnailSide = 4096

// ErrThumbnailTooLarge is returned by [DocumentHost.Rasterize] when the
// scaled element exceeds [MaxThumbnailSide].
var ErrThumbnailTooLarge = errors.New("thumbnail too large")

// Rasterize implements [Rasterizer]. Elements with an Image are decoded and
// scaled; elements with only a Fill get a solid placeholder of the scaled
// size. Results are cached by element ID and scale.
func (h *DocumentHost) Rasterize(ctx context.Context, e *Element, scale float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, fmt.Errorf("rasterize %s: scale must be positive, got %g", e.ID, scale)
	}

	key := fmt.Sprintf("%s@%.4f", e.ID, scale)
	if data, ok := h.thumbs.Get(key); ok {
		return data, nil
	}

	fw, fh := math.Round(e.Width*scale), math.Round(e.Height*scale)
	if fw > MaxThumbnailSide || fh > MaxThumbnailSide {
		return nil, fmt.Errorf("rasterize %s: %w: %gx%g", e.ID, ErrThumbnailTooLarge, fw, fh)
	}
	w, ht := max(1, int(fw)), max(1, int(fh))
	dst := image.NewRGBA(image.Rect(0, 0, w, ht))

	switch {
	case e.Image != "" && !h.noFiles:
		src, err := decodeImage(h.imagePath(e))
		if err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", e.ID, err)
		}
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	case e.Fill != "":
		c, err := colorful.Hex(e.Fill)
		if err != nil {
			return nil, fmt.Errorf("rasterize %s: fill %q: %w", e.ID, e.Fill, err)
		}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	default:
		return nil, fmt.Errorf("rasterize %s: %w", e.ID, ErrNoThumbnail)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("rasterize %s: encode: %w", e.ID, err)
	}
	h.thumbs.Add(key, buf.Bytes())
	return buf.Bytes(), nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
