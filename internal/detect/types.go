package detect

import "fmt"

// Point is a pixel coordinate pair. Depending on context it is either relative
// to a captured bitmap (origin at the bitmap's top-left corner) or absolute on
// the screen.
type Point struct {
	X int
	Y int
}

// Region is a rectangle in absolute screen coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRegion validates and constructs a Region. Zero or negative extents are
// rejected here so the coordinate math never has to guard against them.
func NewRegion(x, y, width, height int) (Region, error) {
	if width <= 0 || height <= 0 {
		return Region{}, fmt.Errorf("invalid region size %dx%d: width and height must be positive", width, height)
	}
	return Region{X: x, Y: y, Width: width, Height: height}, nil
}

// Right returns the exclusive right edge of the region.
func (r Region) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge of the region.
func (r Region) Bottom() int { return r.Y + r.Height }

// Screen is the bounding rectangle of the active display, anchored at (0,0).
type Screen struct {
	Width  int
	Height int
}

// Contains reports whether the absolute point lies inside the screen bounds.
func (s Screen) Contains(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// ButtonCandidate is one button record extracted from raw model text.
// Coordinates are relative to the analyzed bitmap. Position is nil when the
// model reply carried no parseable coordinates; a nil position is distinct
// from a legitimate (0,0) detection at the bitmap's top-left corner.
type ButtonCandidate struct {
	Label      string
	Appearance string
	Position   *Point
}

// ScreenDetection is a candidate mapped into absolute screen coordinates.
type ScreenDetection struct {
	Label      string
	Appearance string
	X          int
	Y          int

	// Adjusted is true when the proportional mismatch rescale was applied.
	Adjusted bool

	// OutOfBounds is true when the mapped point fell outside the current
	// screen without a detected geometry mismatch. The point is reported
	// as-is in that case rather than silently corrected.
	OutOfBounds bool
}
