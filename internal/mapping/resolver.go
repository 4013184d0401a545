package mapping

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

// UnknownRoom is the identifier used when neither the filename nor the text names a room.
const UnknownRoom = "unknown"

// ResolveRoomIdentifier picks the room a measurement belongs to: a room type named in
// the file name, then one named in the OCR text, then the file name itself.
func ResolveRoomIdentifier(filePath, originalText string) string {
	stem := fileStem(filePath)
	if rt, _, ok := constants.MatchRoomType(stem); ok {
		return string(rt)
	}
	if rt, _, ok := constants.MatchRoomType(originalText); ok {
		return string(rt)
	}
	if stem != "" {
		return stem
	}
	return UnknownRoom
}

func fileStem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
