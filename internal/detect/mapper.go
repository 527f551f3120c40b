package detect

// Coordinate mapping between bitmap space and screen space, including the two
// correction strategies for regions saved under a display geometry that no
// longer matches the active screen:
//
//   - ScaleCaptureRegion runs before capturing and changes what is captured,
//     shrinking an overflowing region uniformly onto the current screen.
//   - AdjustToScreen runs after detection and changes what is reported,
//     re-placing a single out-of-bounds point at the same proportional
//     location inside the original region.
//
// Both strategies share the same proportional math: absolute pixel offsets
// from a stale region are meaningless on a reconfigured display, so the
// relative position inside the captured area is the only invariant preserved.

// ToScreen translates an image-relative point into absolute screen
// coordinates by adding the capture region's offset.
func ToScreen(p Point, region Region) Point {
	return Point{X: region.X + p.X, Y: region.Y + p.Y}
}

// NeedsMismatchAdjustment reports whether the region's rectangle exceeds the
// current screen in either axis, which signals it was captured under a
// different display configuration and must not be used verbatim.
func NeedsMismatchAdjustment(region Region, screen Screen) bool {
	return region.X >= screen.Width ||
		region.Y >= screen.Height ||
		region.Right() > screen.Width ||
		region.Bottom() > screen.Height
}

// AdjustToScreen re-places an absolute point onto the current screen. Points
// already inside the screen bounds are returned unchanged. Out-of-bounds
// points are mapped to the same relative position inside the original region,
// scaled to the current screen and clamped to its edges.
func AdjustToScreen(p Point, original Region, screen Screen) Point {
	if screen.Contains(p) {
		return p
	}

	relX := float64(p.X-original.X) / float64(original.Width)
	relY := float64(p.Y-original.Y) / float64(original.Height)

	return Point{
		X: clamp(int(relX*float64(screen.Width)), 0, screen.Width-1),
		Y: clamp(int(relY*float64(screen.Height)), 0, screen.Height-1),
	}
}

// ScaleCaptureRegion shrinks a region whose extent overflows the current
// screen, preserving its aspect by applying one uniform factor to the origin
// and size. Regions that already fit are returned unchanged.
func ScaleCaptureRegion(region Region, screen Screen) Region {
	if !NeedsMismatchAdjustment(region, screen) {
		return region
	}

	scale := float64(screen.Width) / float64(region.Right())
	if s := float64(screen.Height) / float64(region.Bottom()); s < scale {
		scale = s
	}

	scaled := Region{
		X:      int(float64(region.X) * scale),
		Y:      int(float64(region.Y) * scale),
		Width:  int(float64(region.Width) * scale),
		Height: int(float64(region.Height) * scale),
	}
	if scaled.Width < 1 {
		scaled.Width = 1
	}
	if scaled.Height < 1 {
		scaled.Height = 1
	}
	if scaled.Right() > screen.Width {
		scaled.X = screen.Width - scaled.Width
	}
	if scaled.Bottom() > screen.Height {
		scaled.Y = screen.Height - scaled.Height
	}
	if scaled.X < 0 {
		scaled.X = 0
	}
	if scaled.Y < 0 {
		scaled.Y = 0
	}
	return scaled
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
