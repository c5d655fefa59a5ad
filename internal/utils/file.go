package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// maxSafeNameLength caps names produced by URLToSafeFilename, in runes
const maxSafeNameLength = 50

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	imageExts := []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"}
	return slices.Contains(imageExts, GetFileExtension(filename))
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// URLToSafeFilename lowercases a URL, drops "http://", "https://" and
// "www.", replaces everything but letters, digits and dots with
// underscores, and truncates to 50 characters
func URLToSafeFilename(rawURL string) string {
	name := strings.ToLower(rawURL)
	for _, prefix := range []string{"http://", "https://", "www."} {
		name = strings.ReplaceAll(name, prefix, "")
	}

	runes := make([]rune, 0, len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			runes = append(runes, r)
		} else {
			runes = append(runes, '_')
		}
		if len(runes) == maxSafeNameLength {
			break
		}
	}
	return string(runes)
}

// SourceName derives an output base name from a page URL, or from the
// screenshot path when no URL is known
func SourceName(pageURL, screenshotPath string) string {
	if pageURL != "" {
		return URLToSafeFilename(pageURL)
	}
	base := filepath.Base(screenshotPath)
	name := URLToSafeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" || name == "." {
		return "page"
	}
	return name
}
