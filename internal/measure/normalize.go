package measure

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

var (
	reNonMeasure = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s'".-]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// CleanText replaces characters that never take part in a measurement with spaces
// and collapses whitespace. Quotes, dots and dashes are kept.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = reNonMeasure.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Point is one corner of a detected text quadrilateral.
type Point struct {
	X, Y float64
}

// PositionFromBBox reduces a quadrilateral to its axis-aligned bounds.
func PositionFromBBox(bbox []Point) entity.Position {
	if len(bbox) == 0 {
		return entity.Position{}
	}
	left, right := bbox[0].X, bbox[0].X
	top, bottom := bbox[0].Y, bbox[0].Y
	for _, p := range bbox[1:] {
		left = min(left, p.X)
		right = max(right, p.X)
		top = min(top, p.Y)
		bottom = max(bottom, p.Y)
	}
	return entity.Position{
		Left:    left,
		Right:   right,
		Top:     top,
		Bottom:  bottom,
		CenterX: (left + right) / 2,
		CenterY: (top + bottom) / 2,
		Width:   right - left,
		Height:  bottom - top,
	}
}

// PositionFromRect builds a position from a left/top/width/height box.
func PositionFromRect(left, top, width, height float64) entity.Position {
	return PositionFromBBox([]Point{
		{left, top},
		{left + width, top},
		{left + width, top + height},
		{left, top + height},
	})
}

// BBoxArea is the area of the axis-aligned bounds.
func BBoxArea(p entity.Position) float64 {
	return p.Width * p.Height
}
