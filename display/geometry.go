package display

// DisplaySize returns the dimensions of a w×h image once rotated.
func DisplaySize(w, h int, rot Rotation) (int, int) {
	if rot == CCW90 || rot == CCW270 {
		return h, w
	}
	return w, h
}

// DestIndex returns the flat display index of source pixel (x, y) of a w×h
// image. Flips apply to the source coordinates before the rotation.
func DestIndex(x, y, w, h int, rot Rotation, flipH, flipV bool) int {
	if flipH {
		x = w - 1 - x
	}
	if flipV {
		y = h - 1 - y
	}

	switch rot {
	case CCW90:
		return (h*w - 1) - (x*h + (h - 1 - y))
	case CCW180:
		return (h*w - 1) - (y*w + x)
	case CCW270:
		return x*h + (h - 1 - y)
	default:
		return y*w + x
	}
}

// SourceCoords maps display pixel (dx, dy) back to the source pixel of a
// w×h image. ok is false when (dx, dy) lies outside the display.
func SourceCoords(dx, dy, w, h int, cfg Config) (x, y int, ok bool) {
	dw, dh := DisplaySize(w, h, cfg.Rotation)
	if dx < 0 || dy < 0 || dx >= dw || dy >= dh {
		return 0, 0, false
	}

	switch cfg.Rotation {
	case CCW90:
		x, y = w-1-dy, dx
	case CCW180:
		x, y = w-1-dx, h-1-dy
	case CCW270:
		x, y = dy, h-1-dx
	default:
		x, y = dx, dy
	}

	if cfg.FlipH {
		x = w - 1 - x
	}
	if cfg.FlipV {
		y = h - 1 - y
	}
	return x, y, true
}
