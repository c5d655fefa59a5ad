package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/menta2k/page-describer/pkg/types"
)

// DefaultSimilarityThreshold is the CIEDE2000 delta below which two colors
// are treated as indistinguishable
const DefaultSimilarityThreshold = 10.0

// DeltaE returns the CIEDE2000 difference between two RGB colors, on the
// usual 0-100 lightness scale
func DeltaE(c1, c2 [3]int) float64 {
	return deltaE(rgbColor(c1), rgbColor(c2))
}

// go-colorful works on L in [0,1] and scales the result the same way
func deltaE(c1, c2 colorful.Color) float64 {
	return c1.DistanceCIEDE2000(c2) * 100
}

// IsSimilar reports whether two RGB colors are closer than threshold
func IsSimilar(c1, c2 [3]int, threshold float64) bool {
	return DeltaE(c1, c2) < threshold
}

// Merge folds each swatch into the first earlier swatch it is similar to,
// summing percentages. Order of the surviving swatches is preserved.
func Merge(swatches []types.ColorSwatch, threshold float64) []types.ColorSwatch {
	merged := make([]types.ColorSwatch, 0, len(swatches))
	for _, s := range swatches {
		folded := false
		for i := range merged {
			if IsSimilar(merged[i].RGB, s.RGB, threshold) {
				merged[i].Percentage += s.Percentage
				folded = true
				break
			}
		}
		if !folded {
			merged = append(merged, s)
		}
	}
	return merged
}

func rgbColor(c [3]int) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
