package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerToCanvasPoint(t *testing.T) {
	got := PointerToCanvasPoint(Point{X: 100, Y: 50}, Camera{X: 30, Y: -20})
	assert.Equal(t, Point{X: 70, Y: 70}, got)
}

// fixedPoint returns the point a handle drag must leave in place.
func fixedPoint(b Bounds, s Side) Point {
	opposite := Side(0)
	if s&Left != 0 {
		opposite |= Right
	}
	if s&Right != 0 {
		opposite |= Left
	}
	if s&Top != 0 {
		opposite |= Bottom
	}
	if s&Bottom != 0 {
		opposite |= Top
	}
	return HandleCenter(b, opposite)
}

func TestResizeBoundsAllHandles(t *testing.T) {
	initial := Bounds{X: 10, Y: 20, Width: 100, Height: 50}
	drags := []Point{
		{X: 0, Y: 0},
		{X: 200, Y: 200},
		{X: 60, Y: 45},
		{X: -50, Y: 300},
		{X: 300, Y: -40},
	}

	for _, side := range AllSides {
		for _, p := range drags {
			got := ResizeBounds(initial, side, p)
			assert.GreaterOrEqual(t, got.Width, 0.0, "side %s drag %v", side, p)
			assert.GreaterOrEqual(t, got.Height, 0.0, "side %s drag %v", side, p)

			assert.True(t, got.Contains(fixedPoint(initial, side)),
				"side %s drag %v: %+v lost the fixed point", side, p, got)

			// Only the axes the handle controls follow the pointer.
			want := p
			if side&(Left|Right) == 0 {
				want.X = got.X
			}
			if side&(Top|Bottom) == 0 {
				want.Y = got.Y
			}
			assert.True(t, got.Contains(want), "side %s drag %v: %+v", side, p, got)
		}
	}
}

func TestResizeBoundsEdges(t *testing.T) {
	initial := Bounds{X: 10, Y: 10, Width: 100, Height: 100}

	tests := []struct {
		name string
		side Side
		p    Point
		want Bounds
	}{
		{"right grows", Right, Point{X: 150, Y: 999}, Bounds{X: 10, Y: 10, Width: 140, Height: 100}},
		{"left shrinks", Left, Point{X: 40, Y: -5}, Bounds{X: 40, Y: 10, Width: 70, Height: 100}},
		{"top grows", Top, Point{X: 0, Y: 0}, Bounds{X: 10, Y: 0, Width: 100, Height: 110}},
		{"bottom", Bottom, Point{X: 0, Y: 60}, Bounds{X: 10, Y: 10, Width: 100, Height: 50}},
		{"right crosses left", Right, Point{X: -10, Y: 0}, Bounds{X: -10, Y: 10, Width: 20, Height: 100}},
		{"bottom crosses top", Bottom, Point{X: 0, Y: 0}, Bounds{X: 10, Y: 0, Width: 100, Height: 10}},
		{"corner flips both", BottomRight, Point{X: 0, Y: 5}, Bounds{X: 0, Y: 5, Width: 10, Height: 5}},
		{"top left", TopLeft, Point{X: 20, Y: 30}, Bounds{X: 20, Y: 30, Width: 90, Height: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResizeBounds(initial, tt.side, tt.p))
		})
	}
}

func testLayers() ([]string, map[string]Layer) {
	ids := []string{"a", "b", "c"}
	layers := map[string]Layer{
		"a": {Type: LayerRectangle, X: 0, Y: 0, Width: 10, Height: 10},
		"b": {Type: LayerEllipse, X: 50, Y: 50, Width: 20, Height: 20},
		"c": {Type: LayerNote, X: 100, Y: 0, Width: 10, Height: 10},
	}
	return ids, layers
}

func TestIntersectsRectangle(t *testing.T) {
	ids, layers := testLayers()

	assert.Equal(t, []string{"a", "b"}, IntersectsRectangle(ids, layers, Point{X: 5, Y: 5}, Point{X: 55, Y: 55}))
	assert.Equal(t, []string{"a"}, IntersectsRectangle(ids, layers, Point{X: 10, Y: 10}, Point{X: 12, Y: 12}), "touching edges intersect")
	assert.Empty(t, IntersectsRectangle(ids, layers, Point{X: 20, Y: 20}, Point{X: 30, Y: 30}))
	assert.Equal(t, []string{"a", "c"}, IntersectsRectangle(ids, layers, Point{X: 0, Y: 0}, Point{X: 200, Y: 5}))
}

func TestIntersectsRectangleOrderIndependent(t *testing.T) {
	ids, layers := testLayers()
	pts := []Point{{0, 0}, {5, 5}, {55, 55}, {120, -10}, {-3, 60}, {100, 100}}

	for _, a := range pts {
		for _, b := range pts {
			assert.Equal(t,
				IntersectsRectangle(ids, layers, a, b),
				IntersectsRectangle(ids, layers, b, a),
				"a=%v b=%v", a, b)
		}
	}
}

func TestIntersectsRectangleSkipsMissing(t *testing.T) {
	_, layers := testLayers()
	got := IntersectsRectangle([]string{"gone", "a"}, layers, Point{}, Point{X: 1, Y: 1})
	assert.Equal(t, []string{"a"}, got)
}

func TestStrokeToPathLayer(t *testing.T) {
	fill := Color{R: 1, G: 2, B: 3}
	layer := StrokeToPathLayer([]PathPoint{{0, 0, 0.5}, {10, 6, 0.8}}, fill)

	assert.Equal(t, LayerPath, layer.Type)
	assert.Equal(t, 0.0, layer.X)
	assert.Equal(t, 0.0, layer.Y)
	assert.Equal(t, 10.0, layer.Width)
	assert.Equal(t, 6.0, layer.Height)
	assert.Equal(t, fill, layer.Fill)
	assert.Equal(t, []PathPoint{{0, 0, 0.5}, {10, 6, 0.8}}, layer.Points)
}

func TestStrokeToPathLayerTranslatesToLocalFrame(t *testing.T) {
	layer := StrokeToPathLayer([]PathPoint{{30, 40, 0.1}, {20, 45, 0.2}, {25, 35, 0.3}}, Color{})

	require.Len(t, layer.Points, 3)
	assert.Equal(t, Bounds{X: 20, Y: 35, Width: 10, Height: 10}, LayerBounds(layer))
	assert.Equal(t, PathPoint{X: 10, Y: 5, Pressure: 0.1}, layer.Points[0])
	assert.Equal(t, PathPoint{X: 0, Y: 10, Pressure: 0.2}, layer.Points[1])
	assert.Equal(t, PathPoint{X: 5, Y: 0, Pressure: 0.3}, layer.Points[2])
}

func TestHandleAt(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 100, Height: 50}

	side, ok := HandleAt(b, Point{X: 101, Y: 49}, HandleSize)
	require.True(t, ok)
	assert.Equal(t, BottomRight, side)

	side, ok = HandleAt(b, Point{X: 50, Y: -2}, HandleSize)
	require.True(t, ok)
	assert.Equal(t, Top, side)

	_, ok = HandleAt(b, Point{X: 50, Y: 25}, HandleSize)
	assert.False(t, ok)
}

func TestLayerPatchInverse(t *testing.T) {
	l := Layer{Type: LayerRectangle, X: 1, Y: 2, Width: 3, Height: 4}
	p := PositionPatch(10, 20)

	moved := p.Apply(l)
	assert.Equal(t, 10.0, moved.X)
	assert.Equal(t, 3.0, moved.Width)

	restored := p.Inverse(l).Apply(moved)
	assert.Equal(t, l, restored)
}
