package constants

import "strings"

const (
	IMAGE = "IMAGE"
	TEXT  = "TXT"
	JSON  = "JSON"
)

// Well-known names inside a survey directory.
const (
	ScopeFileName = "scope.txt"
	OCRFileName   = "ocr.json"
)

// AllowedImageExtensions holds the photo formats accepted for OCR.
var AllowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"heic": {},
	"heif": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func IsHEICExt(ext string) bool {
	ext = NormalizeExt(ext)
	return ext == "heic" || ext == "heif"
}

// MapExtToFormat returns IMAGE, TXT, JSON or "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	ext = NormalizeExt(ext)
	if _, ok := AllowedImageExtensions[ext]; ok {
		return IMAGE
	}
	switch ext {
	case "txt":
		return TEXT
	case "json":
		return JSON
	}
	return ""
}
