// Package processing handles screenshot I/O: loading from files or URLs,
// encoding for collaborators, and drawing debug overlays.
package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/page-describer/pkg/types"
)

// Processor handles image processing operations
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImageFromURL downloads and loads an image from a URL
func (p *Processor) LoadImageFromURL(imageURL string) (image.Image, []byte, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequest("GET", imageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Page-Describer/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, err := p.DecodeImage(data)
	if err != nil {
		return nil, nil, err
	}
	return img, data, nil
}

// LoadImage loads an image from a file path with WebP support. The raw file
// bytes are returned alongside so OCR can read the original encoding.
func (p *Processor) LoadImage(path string) (image.Image, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image file: %w", err)
	}

	img, err := p.DecodeImage(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, data, nil
}

// LoadImageSmart loads an image from either a file path or URL
func (p *Processor) LoadImageSmart(source string) (image.Image, []byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(source)
	}
	return p.LoadImage(source)
}

// DecodeImage decodes image bytes, honoring EXIF orientation, with an
// explicit WebP fallback
func (p *Processor) DecodeImage(data []byte) (image.Image, error) {
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}

	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// EncodeImage encodes an image as png or jpg, optionally shrinking its long
// side to maxDim first. Callers that rely on pixel coordinates (OCR boxes)
// must pass maxDim 0.
func (p *Processor) EncodeImage(img image.Image, format string, maxDim int, quality int) ([]byte, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default: // png
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// overlayColors cycles per element type, in order of first appearance
var overlayColors = []color.NRGBA{
	{0, 255, 0, 255},   // green
	{255, 204, 0, 255}, // gold
	{255, 0, 0, 255},   // red
	{0, 170, 255, 255}, // blue
	{255, 0, 255, 255}, // magenta
	{0, 255, 255, 255}, // cyan
}

var textBlockColor = color.NRGBA{128, 128, 128, 255}

// CreateDebugOverlay draws every element box, colored by type, and a thin
// outline around each OCR text block
func (p *Processor) CreateDebugOverlay(img image.Image, elements []types.UIElement, blocks []types.TextBlock) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := int(math.Max(2, 0.003*float64(minInt(w, h))))

	for _, block := range blocks {
		if block.BoundingBox.Valid() {
			drawBox(nrgba, block.BoundingBox, textBlockColor, 1)
		}
	}

	colorIndex := make(map[types.ElementType]int)
	for _, e := range elements {
		if !e.BoundingBox.Valid() {
			continue
		}
		i, ok := colorIndex[e.Type]
		if !ok {
			i = len(colorIndex) % len(overlayColors)
			colorIndex[e.Type] = i
		}
		drawBox(nrgba, e.BoundingBox, overlayColors[i], stroke)
	}

	return nrgba
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func boxToPixels(box types.BoundingBox) (int, int, int, int) {
	tl, br := box.TopLeft(), box.BottomRight()
	x0 := int(tl.X + 0.5)
	y0 := int(tl.Y + 0.5)
	x1 := int(br.X + 0.5)
	y1 := int(br.Y + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func drawBox(img *image.NRGBA, box types.BoundingBox, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(box)
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
