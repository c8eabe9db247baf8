package helper

import (
	"math"
	"strconv"
	"strings"
)

// Point is an absolute pixel coordinate. Values stay float until the moment a
// device command is built, so a swipe's two endpoints don't accumulate
// rounding error.
type Point struct {
	X float64
	Y float64
}

// normalizedScale is the alternate box encoding where coordinates are given
// on a 0..1000 grid instead of 0..1 fractions.
const normalizedScale = 1000

// ResolveBox converts a normalized box string plus the current screen
// resolution into an absolute pixel coordinate.
//
// Accepted encodings: a single point "x,y" or a two-corner box
// "x1,y1,x2,y2", optionally wrapped in [] or () brackets. Fractional values
// in [0,1] scale directly; values above 1 are read on the 0..1000 grid. A
// box is reduced to its centroid before scaling.
//
// Any malformed, wrong-arity or out-of-range input yields nil — callers
// treat that as "no resolvable target", never as an error.
func ResolveBox(box string, screenWidth, screenHeight int) *Point {
	if screenWidth <= 0 || screenHeight <= 0 {
		return nil
	}

	values, ok := parseBoxValues(box)
	if !ok {
		return nil
	}

	var nx, ny float64
	switch len(values) {
	case 2:
		nx, ny = values[0], values[1]
	case 4:
		nx = (values[0] + values[2]) / 2
		ny = (values[1] + values[3]) / 2
	default:
		return nil
	}

	return &Point{
		X: nx * float64(screenWidth),
		Y: ny * float64(screenHeight),
	}
}

// parseBoxValues parses the comma-separated numbers of a box string and
// normalizes each to the [0,1] range.
func parseBoxValues(box string) ([]float64, bool) {
	box = strings.TrimSpace(box)
	box = strings.Trim(box, "[]() ")
	if box == "" {
		return nil, false
	}

	parts := strings.Split(box, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return nil, false
	}

	values := make([]float64, 0, len(parts))
	scaled := false
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, false
		}
		// ParseFloat admits "NaN" and "Inf"; neither names a screen position.
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		if v < 0 || v > normalizedScale {
			return nil, false
		}
		if v > 1 {
			scaled = true
		}
		values = append(values, v)
	}

	// One value above 1 means the whole box is on the 0..1000 grid.
	if scaled {
		for i := range values {
			values[i] /= normalizedScale
		}
	}
	return values, true
}

// EscapeShellText prefixes shell-significant characters (backslashes and
// both quote kinds) with a backslash so model-supplied text survives the
// device-side shell that re-parses input commands.
func EscapeShellText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\', '"', '\'':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
