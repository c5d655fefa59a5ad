// Package palette extracts the dominant colors of a screenshot and compares
// colors perceptually.
//
// Extraction draws a uniform random sample of pixels without replacement and
// counts exact RGB values within the sample, so results vary between runs
// unless a seed is configured.
package palette

import (
	"image"
	"math/rand/v2"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/menta2k/page-describer/pkg/types"
)

const (
	// DefaultNumColors is the number of swatches returned when not configured
	DefaultNumColors = 5
	// DefaultSampleSize is the maximum number of pixels counted
	DefaultSampleSize = 10000
)

// Extractor samples pixels and ranks colors by frequency
type Extractor struct {
	config Config
}

// Config holds configuration for palette extraction
type Config struct {
	NumColors  int
	SampleSize int
	// Seed makes sampling reproducible when set
	Seed *uint64
}

// New creates a new Extractor with default configuration
func New() *Extractor {
	return &Extractor{
		config: Config{
			NumColors:  DefaultNumColors,
			SampleSize: DefaultSampleSize,
		},
	}
}

// NewWithConfig creates a new Extractor with custom configuration.
// Non-positive sizes fall back to the defaults.
func NewWithConfig(config Config) *Extractor {
	if config.NumColors <= 0 {
		config.NumColors = DefaultNumColors
	}
	if config.SampleSize <= 0 {
		config.SampleSize = DefaultSampleSize
	}
	return &Extractor{config: config}
}

// Extract returns up to NumColors swatches for img, most frequent first
func (e *Extractor) Extract(img image.Image) []types.ColorSwatch {
	if img == nil || img.Bounds().Empty() {
		return []types.ColorSwatch{}
	}
	return e.ExtractPixels(flatten(img), e.config.NumColors)
}

// ExtractPixels ranks the k most frequent colors of a sample of pixels.
// Percentages are relative to the combined count of the returned swatches.
func (e *Extractor) ExtractPixels(pixels [][3]uint8, k int) []types.ColorSwatch {
	if len(pixels) == 0 || k <= 0 {
		return []types.ColorSwatch{}
	}

	indices := sampleIndices(e.rng(), len(pixels), e.config.SampleSize)

	// first-seen order breaks frequency ties
	counts := make(map[[3]uint8]int)
	var order [][3]uint8
	for _, i := range indices {
		px := pixels[i]
		if _, ok := counts[px]; !ok {
			order = append(order, px)
		}
		counts[px]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if len(order) > k {
		order = order[:k]
	}

	total := 0
	for _, px := range order {
		total += counts[px]
	}

	swatches := make([]types.ColorSwatch, 0, len(order))
	for _, px := range order {
		swatches = append(swatches, types.ColorSwatch{
			Hex:        toColorful(px).Hex(),
			RGB:        [3]int{int(px[0]), int(px[1]), int(px[2])},
			Percentage: float64(counts[px]) / float64(total) * 100,
		})
	}
	return swatches
}

func (e *Extractor) rng() *rand.Rand {
	if e.config.Seed != nil {
		return rand.New(rand.NewPCG(*e.config.Seed, *e.config.Seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// flatten converts an image into row-major RGB triples, dropping alpha
func flatten(img image.Image) [][3]uint8 {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	pixels := make([][3]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		i := y * nrgba.Stride
		for x := 0; x < w; x++ {
			pixels = append(pixels, [3]uint8{nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2]})
			i += 4
		}
	}
	return pixels
}

// sampleIndices picks n distinct indices from [0,total) uniformly, using a
// sparse Fisher-Yates shuffle. When n covers the whole range every index is
// returned in order.
func sampleIndices(r *rand.Rand, total, n int) []int {
	if n >= total {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}

	out := make([]int, n)
	swapped := make(map[int]int, n)
	for i := 0; i < n; i++ {
		j := i + r.IntN(total-i)
		vj, ok := swapped[j]
		if !ok {
			vj = j
		}
		vi, ok := swapped[i]
		if !ok {
			vi = i
		}
		out[i] = vj
		swapped[j] = vi
	}
	return out
}

func toColorful(px [3]uint8) colorful.Color {
	return colorful.Color{R: float64(px[0]) / 255, G: float64(px[1]) / 255, B: float64(px[2]) / 255}
}
