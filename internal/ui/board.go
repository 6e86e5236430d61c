package ui

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/engine"
)

var (
	backgroundColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	selectionColor  = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	marqueeFill     = color.NRGBA{R: 59, G: 130, B: 246, A: 20}
	handleFill      = color.White
)

const (
	minStroke    = 1.0
	maxStroke    = 8.0
	cursorRadius = 5
)

type boardRenderer struct {
	board      *BoardWidget
	background *fcanvas.Rectangle
	objects    []fyne.CanvasObject
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	r := &boardRenderer{
		board:      b,
		background: fcanvas.NewRectangle(backgroundColor),
	}
	r.rebuild()
	return r
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Layout(size fyne.Size) { r.background.Resize(size) }

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardRenderer) Destroy() {}

func (r *boardRenderer) Refresh() {
	r.rebuild()
	fcanvas.Refresh(r.board)
}

// rebuild redraws everything in paint order: layers bottom first, then
// selection chrome, previews and remote cursors on top.
func (r *boardRenderer) rebuild() {
	e := r.board.engine
	cam := e.Camera()
	view := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x+cam.X), float32(y+cam.Y))
	}

	objects := []fyne.CanvasObject{r.background}
	remote := e.SelectionColors()
	for _, id := range e.LayerIDs() {
		l, ok := e.Layer(id)
		if !ok {
			continue
		}
		objects = append(objects, layerObjects(l, view)...)
		if c, ok := remote[id]; ok && !e.IsSelected(id) {
			objects = append(objects, outline(canvas.LayerBounds(l), view, c.NRGBA()))
		}
	}

	if b, ok := e.SelectionBounds(); ok {
		objects = append(objects, outline(b, view, selectionColor))
		if len(e.Selection()) == 1 && e.State().Mode != engine.ModeTranslating {
			objects = append(objects, handles(b, view)...)
		}
	}

	if m, ok := e.Marquee(); ok {
		net := fcanvas.NewRectangle(marqueeFill)
		net.StrokeColor = selectionColor
		net.StrokeWidth = 1
		net.Move(view(m.X, m.Y))
		net.Resize(fyne.NewSize(float32(m.Width), float32(m.Height)))
		objects = append(objects, net)
	}

	for _, d := range e.Drafts() {
		objects = append(objects, strokeObjects(d.Points, 0, 0, d.Color.NRGBA(), view)...)
	}

	for _, c := range e.Cursors() {
		objects = append(objects, cursorObjects(c, view)...)
	}

	r.objects = objects
}

type viewFunc func(x, y float64) fyne.Position

func layerObjects(l canvas.Layer, view viewFunc) []fyne.CanvasObject {
	fill := l.Fill.NRGBA()
	pos := view(l.X, l.Y)
	size := fyne.NewSize(float32(l.Width), float32(l.Height))

	switch l.Type {
	case canvas.LayerRectangle:
		rect := fcanvas.NewRectangle(fill)
		rect.Move(pos)
		rect.Resize(size)
		return []fyne.CanvasObject{rect}
	case canvas.LayerEllipse:
		circle := fcanvas.NewCircle(fill)
		circle.Position1 = pos
		circle.Position2 = pos.Add(size)
		return []fyne.CanvasObject{circle}
	case canvas.LayerPath:
		return strokeObjects(l.Points, l.X, l.Y, fill, view)
	case canvas.LayerText:
		return []fyne.CanvasObject{textObject(l.Value, fill, pos, size)}
	case canvas.LayerNote:
		note := fcanvas.NewRectangle(fill)
		note.Move(pos)
		note.Resize(size)
		note.CornerRadius = 2
		return []fyne.CanvasObject{note, textObject(l.Value, textOn(l.Fill), pos, size)}
	}
	return nil
}

func textObject(value string, c color.Color, pos fyne.Position, size fyne.Size) fyne.CanvasObject {
	text := fcanvas.NewText(value, c)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = float32(math.Max(8, math.Min(float64(size.Height)*0.5, 96)))
	text.Move(pos)
	text.Resize(size)
	return text
}

// textOn picks black or white for legible text on a filled note.
func textOn(c canvas.Color) color.Color {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 150 {
		return color.Black
	}
	return color.White
}

func strokeObjects(pts []canvas.PathPoint, ox, oy float64, c color.Color, view viewFunc) []fyne.CanvasObject {
	if len(pts) == 1 {
		w := strokeWidth(pts[0].Pressure)
		dot := fcanvas.NewCircle(c)
		center := view(ox+pts[0].X, oy+pts[0].Y)
		dot.Position1 = center.SubtractXY(w/2, w/2)
		dot.Position2 = center.AddXY(w/2, w/2)
		return []fyne.CanvasObject{dot}
	}
	out := make([]fyne.CanvasObject, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		seg := fcanvas.NewLine(c)
		seg.StrokeWidth = strokeWidth(pts[i].Pressure)
		seg.Position1 = view(ox+pts[i-1].X, oy+pts[i-1].Y)
		seg.Position2 = view(ox+pts[i].X, oy+pts[i].Y)
		out = append(out, seg)
	}
	return out
}

func strokeWidth(pressure float64) float32 {
	return float32(minStroke + (maxStroke-minStroke)*pressure)
}

func outline(b canvas.Bounds, view viewFunc, c color.Color) fyne.CanvasObject {
	box := fcanvas.NewRectangle(color.Transparent)
	box.StrokeColor = c
	box.StrokeWidth = 1
	box.Move(view(b.X, b.Y))
	box.Resize(fyne.NewSize(float32(b.Width), float32(b.Height)))
	return box
}

func handles(b canvas.Bounds, view viewFunc) []fyne.CanvasObject {
	out := make([]fyne.CanvasObject, 0, len(canvas.AllSides))
	half := float64(canvas.HandleSize) / 2
	for _, side := range canvas.AllSides {
		center := canvas.HandleCenter(b, side)
		h := fcanvas.NewRectangle(handleFill)
		h.StrokeColor = selectionColor
		h.StrokeWidth = 1
		h.Move(view(center.X-half, center.Y-half))
		h.Resize(fyne.NewSize(canvas.HandleSize, canvas.HandleSize))
		out = append(out, h)
	}
	return out
}

func cursorObjects(c engine.Cursor, view viewFunc) []fyne.CanvasObject {
	col := c.Color.NRGBA()
	center := view(c.Position.X, c.Position.Y)

	dot := fcanvas.NewCircle(col)
	dot.Position1 = center.SubtractXY(cursorRadius, cursorRadius)
	dot.Position2 = center.AddXY(cursorRadius, cursorRadius)

	label := fcanvas.NewText(fmt.Sprintf("User %d", c.ConnectionID), col)
	label.TextSize = 11
	label.Move(center.AddXY(cursorRadius+2, cursorRadius))
	return []fyne.CanvasObject{dot, label}
}
