package describer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/menta2k/page-describer/pkg/types"
)

const (
	// NoColorInformation is reported when the palette is empty
	NoColorInformation = "No color information available"
	// NoRelevantMetadata is reported when no meta tag survives filtering
	NoRelevantMetadata = "No relevant metadata available"

	summaryListLimit = 3
)

var relevantMetaKeys = map[string]bool{
	"description": true,
	"keywords":    true,
	"author":      true,
	"viewport":    true,
}

// DescribeColors summarizes a palette, naming at most the first three swatches
func DescribeColors(palette []types.ColorSwatch) ColorSummary {
	if len(palette) == 0 {
		return ColorSummary{Description: NoColorInformation}
	}

	entries := make([]ColorEntry, len(palette))
	for i, swatch := range palette {
		hex := swatch.Hex
		if hex == "" {
			hex = "#000000"
		}
		entries[i] = ColorEntry{Hex: hex, Percentage: round(swatch.Percentage, 2)}
	}

	named := entries
	if len(named) > summaryListLimit {
		named = named[:summaryListLimit]
	}
	parts := make([]string, len(named))
	for i, e := range named {
		parts[i] = fmt.Sprintf("%s (%s%%)", e.Hex, formatNumber(e.Percentage))
	}

	return ColorSummary{
		PrimaryColors: entries,
		Description:   fmt.Sprintf("The page primarily uses %d colors: %s", len(entries), strings.Join(parts, ", ")),
	}
}

// RelevantMetadata keeps the non-empty description, keywords, author and
// viewport tags plus any Open Graph or Twitter Card tag
func RelevantMetadata(metadata map[string]string) map[string]string {
	relevant := make(map[string]string)
	for key, value := range metadata {
		if value == "" {
			continue
		}
		if relevantMetaKeys[key] || strings.Contains(key, "og:") || strings.Contains(key, "twitter:") {
			relevant[key] = value
		}
	}
	return relevant
}

// DescribeMetadata summarizes the relevant meta tags, naming at most three
// keys in lexical order
func DescribeMetadata(metadata map[string]string) MetadataSummary {
	relevant := RelevantMetadata(metadata)
	if len(relevant) == 0 {
		return MetadataSummary{Description: NoRelevantMetadata}
	}

	keys := make([]string, 0, len(relevant))
	for key := range relevant {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > summaryListLimit {
		keys = keys[:summaryListLimit]
	}

	return MetadataSummary{
		Tags: relevant,
		Description: fmt.Sprintf("The page includes %d metadata tags, including: %s",
			len(relevant), strings.Join(keys, ", ")),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// formatNumber prints the shortest representation that round-trips, always
// with a fractional part ("60.0", "25.3")
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
