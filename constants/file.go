package constants

import (
	"path/filepath"
	"strings"
)

// FileFormat identifies the extraction family for an uploaded document.
type FileFormat string

const (
	FormatPDF   FileFormat = "PDF"
	FormatImage FileFormat = "IMAGE"
	FormatText  FileFormat = "TEXT"
)

// StructuredExtensions routes extensions to the structured decoders.
var StructuredExtensions = map[string]FileFormat{
	"pdf":  FormatPDF,
	"png":  FormatImage,
	"jpg":  FormatImage,
	"jpeg": FormatImage,
}

// TextExtensions holds the plain-text family routed to the lossy decoder.
// Extensions outside StructuredExtensions and TextExtensions are
// unsupported.
var TextExtensions = map[string]struct{}{
	"txt":      {},
	"text":     {},
	"md":       {},
	"markdown": {},
	"rst":      {},
	"org":      {},
	"tex":      {},
	"csv":      {},
	"json":     {},
	"log":      {},
}

// AllowedExtensions holds the default allowed file extensions for batch discovery.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
	"md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtOf returns the normalized final extension of a file name, or "" when
// the name has none.
func ExtOf(name string) string {
	return NormalizeExt(filepath.Ext(name))
}

// FormatOf maps a file name to its extraction family. The second return
// is false when the extension belongs to no recognized family.
func FormatOf(name string) (FileFormat, bool) {
	ext := ExtOf(name)
	if f, ok := StructuredExtensions[ext]; ok {
		return f, true
	}
	if _, ok := TextExtensions[ext]; ok {
		return FormatText, true
	}
	return "", false
}
