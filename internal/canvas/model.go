package canvas

// MaxLayers caps the number of layers a board may hold.
const MaxLayers = 100

// DefaultLayerSize is the width and height of a freshly placed shape.
const DefaultLayerSize = 100

// Point is a canvas-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Camera is the accumulated pan offset of one board view.
type Camera struct {
	X float64
	Y float64
}

// Color is an opaque RGB color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Bounds is an axis-aligned box. Width and Height are never negative
// once normalized.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Overlaps reports whether the two boxes intersect. Touching edges count.
func (b Bounds) Overlaps(o Bounds) bool {
	return !(b.X+b.Width < o.X || o.X+o.Width < b.X ||
		b.Y+b.Height < o.Y || o.Y+o.Height < b.Y)
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	minX := min(b.X, o.X)
	minY := min(b.Y, o.Y)
	maxX := max(b.X+b.Width, o.X+o.Width)
	maxY := max(b.Y+b.Height, o.Y+o.Height)
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Side names one of the eight resize handles of a selection box. Sides
// combine as a bit set: TopLeft == Top|Left.
type Side int

const (
	Top    Side = 1
	Bottom Side = 2
	Left   Side = 4
	Right  Side = 8

	TopLeft     = Top | Left
	TopRight    = Top | Right
	BottomLeft  = Bottom | Left
	BottomRight = Bottom | Right
)

// AllSides lists the eight handles in drawing order.
var AllSides = []Side{TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}

func (s Side) String() string {
	switch s {
	case Top:
		return "n"
	case Bottom:
		return "s"
	case Left:
		return "w"
	case Right:
		return "e"
	case TopLeft:
		return "nw"
	case TopRight:
		return "ne"
	case BottomLeft:
		return "sw"
	case BottomRight:
		return "se"
	}
	return "?"
}

// LayerType tags the kind of a Layer.
type LayerType int

const (
	LayerRectangle LayerType = iota
	LayerEllipse
	LayerPath
	LayerText
	LayerNote
)

func (t LayerType) String() string {
	switch t {
	case LayerRectangle:
		return "rectangle"
	case LayerEllipse:
		return "ellipse"
	case LayerPath:
		return "path"
	case LayerText:
		return "text"
	case LayerNote:
		return "note"
	}
	return "unknown"
}

// PathPoint is one pen sample: a position plus pen pressure in [0, 1].
type PathPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Layer is one shape on the board. Points is only set for LayerPath and
// is relative to (X, Y). Value holds the text of Text and Note layers.
type Layer struct {
	Type   LayerType   `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Fill   Color       `json:"fill"`
	Value  string      `json:"value,omitempty"`
	Points []PathPoint `json:"points,omitempty"`
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	if l.Points != nil {
		pts := make([]PathPoint, len(l.Points))
		copy(pts, l.Points)
		l.Points = pts
	}
	return l
}

// LayerPatch is a partial update to a Layer. Nil fields are left alone.
type LayerPatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Fill   *Color   `json:"fill,omitempty"`
	Value  *string  `json:"value,omitempty"`
}

// BoundsPatch builds a patch that moves and resizes a layer to b.
func BoundsPatch(b Bounds) LayerPatch {
	return LayerPatch{X: &b.X, Y: &b.Y, Width: &b.Width, Height: &b.Height}
}

// PositionPatch builds a patch that only moves a layer.
func PositionPatch(x, y float64) LayerPatch {
	return LayerPatch{X: &x, Y: &y}
}

// Empty reports whether the patch changes nothing.
func (p LayerPatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Fill == nil && p.Value == nil
}

// Apply merges p into l and returns the result.
func (p LayerPatch) Apply(l Layer) Layer {
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.Width != nil {
		l.Width = *p.Width
	}
	if p.Height != nil {
		l.Height = *p.Height
	}
	if p.Fill != nil {
		l.Fill = *p.Fill
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	return l
}

// Inverse returns the patch that restores the fields of l touched by p.
func (p LayerPatch) Inverse(l Layer) LayerPatch {
	var inv LayerPatch
	if p.X != nil {
		v := l.X
		inv.X = &v
	}
	if p.Y != nil {
		v := l.Y
		inv.Y = &v
	}
	if p.Width != nil {
		v := l.Width
		inv.Width = &v
	}
	if p.Height != nil {
		v := l.Height
		inv.Height = &v
	}
	if p.Fill != nil {
		v := l.Fill
		inv.Fill = &v
	}
	if p.Value != nil {
		v := l.Value
		inv.Value = &v
	}
	return inv
}
