// Package canvas holds the board's value types and the pure geometry the
// interaction engine is built on. Nothing in this package keeps state.
package canvas

import "math"

// PointerToCanvasPoint projects a raw pointer position through the camera.
func PointerToCanvasPoint(raw Point, cam Camera) Point {
	return Point{X: raw.X - cam.X, Y: raw.Y - cam.Y}
}

// ResizeBounds recomputes initial as if the given handle had been dragged
// to p. The edge opposite the handle stays put; when the drag crosses it
// the two edges swap roles so the result never has a negative size.
func ResizeBounds(initial Bounds, corner Side, p Point) Bounds {
	left, right := initial.X, initial.X+initial.Width
	top, bottom := initial.Y, initial.Y+initial.Height

	if corner&Left != 0 {
		left = p.X
	}
	if corner&Right != 0 {
		right = p.X
	}
	if corner&Top != 0 {
		top = p.Y
	}
	if corner&Bottom != 0 {
		bottom = p.Y
	}

	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	return Bounds{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// RectFromPoints returns the box spanned by two opposite corners.
func RectFromPoints(a, b Point) Bounds {
	x, y := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return Bounds{X: x, Y: y, Width: math.Abs(a.X - b.X), Height: math.Abs(a.Y - b.Y)}
}

// IntersectsRectangle returns, in the order of ids, every layer whose
// bounding box overlaps the box spanned by a and b.
func IntersectsRectangle(ids []string, layers map[string]Layer, a, b Point) []string {
	rect := RectFromPoints(a, b)
	out := []string{}
	for _, id := range ids {
		l, ok := layers[id]
		if !ok {
			continue
		}
		if rect.Overlaps(LayerBounds(l)) {
			out = append(out, id)
		}
	}
	return out
}

// StrokeToPathLayer turns raw pen samples into a Path layer whose points
// are relative to the stroke's own bounding box.
func StrokeToPathLayer(points []PathPoint, fill Color) Layer {
	if len(points) == 0 {
		return Layer{Type: LayerPath, Fill: fill, Points: []PathPoint{}}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, pt := range points[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}

	local := make([]PathPoint, len(points))
	for i, pt := range points {
		local[i] = PathPoint{X: pt.X - minX, Y: pt.Y - minY, Pressure: pt.Pressure}
	}
	return Layer{
		Type:   LayerPath,
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Fill:   fill,
		Points: local,
	}
}

// LayerBounds returns the bounding box of l.
func LayerBounds(l Layer) Bounds {
	switch l.Type {
	case LayerRectangle, LayerEllipse, LayerText, LayerNote, LayerPath:
		return Bounds{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
	}
	return Bounds{X: l.X, Y: l.Y}
}

// HandleSize is the edge length of a resize handle in canvas units.
const HandleSize = 8

// HandleCenter returns where the handle for side s sits on b.
func HandleCenter(b Bounds, s Side) Point {
	p := Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	if s&Left != 0 {
		p.X = b.X
	}
	if s&Right != 0 {
		p.X = b.X + b.Width
	}
	if s&Top != 0 {
		p.Y = b.Y
	}
	if s&Bottom != 0 {
		p.Y = b.Y + b.Height
	}
	return p
}

// HandleAt reports which resize handle of b, if any, is under p.
func HandleAt(b Bounds, p Point, size float64) (Side, bool) {
	half := size / 2
	for _, s := range AllSides {
		c := HandleCenter(b, s)
		box := Bounds{X: c.X - half, Y: c.Y - half, Width: size, Height: size}
		if box.Contains(p) {
			return s, true
		}
	}
	return 0, false
}
