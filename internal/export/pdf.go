// Package export renders a board to PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"LiveBoard/internal/canvas"
)

const (
	margin      = 36.0 // pt
	minStroke   = 0.5
	maxStroke   = 6.0
	noteTextPad = 8.0
)

// ErrEmptyBoard is returned when there is nothing to export.
var ErrEmptyBoard = errors.New("board has no layers")

// Source is what the exporter reads: layer ids in paint order plus lookup.
type Source interface {
	LayerIDs() []string
	Layer(id string) (canvas.Layer, bool)
}

// WritePDF renders every layer of src, bottom first, onto one landscape A4
// page scaled to fit.
func WritePDF(w io.Writer, src Source) error {
	layers := make([]canvas.Layer, 0)
	for _, id := range src.LayerIDs() {
		if l, ok := src.Layer(id); ok {
			layers = append(layers, l)
		}
	}
	if len(layers) == 0 {
		return ErrEmptyBoard
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetTitle("LiveBoard export", true)
	pdf.SetCreator("LiveBoard", true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	t := fit(extent(layers), pageW-2*margin, pageH-2*margin)

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, l := range layers {
		drawLayer(pdf, t, l)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// transform maps canvas units to page points.
type transform struct {
	scale  float64
	dx, dy float64
}

func (t transform) point(x, y float64) (float64, float64) {
	return margin + (x-t.dx)*t.scale, margin + (y-t.dy)*t.scale
}

func (t transform) length(v float64) float64 { return v * t.scale }

func extent(layers []canvas.Layer) canvas.Bounds {
	b := canvas.LayerBounds(layers[0])
	for _, l := range layers[1:] {
		b = b.Union(canvas.LayerBounds(l))
	}
	return b
}

func fit(b canvas.Bounds, w, h float64) transform {
	scale := 1.0
	if b.Width > 0 && b.Height > 0 {
		scale = math.Min(1, math.Min(w/b.Width, h/b.Height))
	} else if b.Width > 0 {
		scale = math.Min(1, w/b.Width)
	} else if b.Height > 0 {
		scale = math.Min(1, h/b.Height)
	}
	return transform{scale: scale, dx: b.X, dy: b.Y}
}

func drawLayer(pdf *gofpdf.Fpdf, t transform, l canvas.Layer) {
	pdf.SetDrawColor(int(l.Fill.R), int(l.Fill.G), int(l.Fill.B))
	pdf.SetFillColor(int(l.Fill.R), int(l.Fill.G), int(l.Fill.B))
	pdf.SetTextColor(int(l.Fill.R), int(l.Fill.G), int(l.Fill.B))
	x, y := t.point(l.X, l.Y)
	w, h := t.length(l.Width), t.length(l.Height)

	switch l.Type {
	case canvas.LayerRectangle:
		pdf.Rect(x, y, w, h, "F")
	case canvas.LayerEllipse:
		pdf.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, "F")
	case canvas.LayerPath:
		drawPath(pdf, t, l)
	case canvas.LayerText:
		drawText(pdf, x, y, w, h, l.Value)
	case canvas.LayerNote:
		pdf.Rect(x, y, w, h, "F")
		pdf.SetTextColor(textOn(l.Fill))
		pad := t.length(noteTextPad)
		drawText(pdf, x+pad, y+pad, w-2*pad, h-2*pad, l.Value)
	}
}

func drawPath(pdf *gofpdf.Fpdf, t transform, l canvas.Layer) {
	pts := l.Points
	if len(pts) == 1 {
		x, y := t.point(l.X+pts[0].X, l.Y+pts[0].Y)
		pdf.Circle(x, y, strokeWidth(t, pts[0].Pressure)/2, "F")
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := t.point(l.X+pts[i-1].X, l.Y+pts[i-1].Y)
		x1, y1 := t.point(l.X+pts[i].X, l.Y+pts[i].Y)
		pdf.SetLineWidth(strokeWidth(t, pts[i].Pressure))
		pdf.Line(x0, y0, x1, y1)
	}
}

func strokeWidth(t transform, pressure float64) float64 {
	w := t.length(minStroke + (maxStroke-minStroke)*pressure)
	return math.Max(w, minStroke)
}

func drawText(pdf *gofpdf.Fpdf, x, y, w, h float64, value string) {
	if value == "" || w <= 0 || h <= 0 {
		return
	}
	size := math.Max(6, math.Min(h*0.5, 96))
	pdf.SetFont("Helvetica", "", size)
	pdf.SetXY(x, y)
	pdf.MultiCell(w, size*1.2, value, "", "C", false)
}

// textOn picks black or white for legible text on a filled note.
func textOn(c canvas.Color) (int, int, int) {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 150 {
		return 0, 0, 0
	}
	return 255, 255, 255
}
