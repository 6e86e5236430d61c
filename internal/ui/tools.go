package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/engine"
)

// palette is the fill picker offered in the toolbar.
var palette = []canvas.Color{
	{R: 0, G: 0, B: 0},
	{R: 243, G: 82, B: 35},
	{R: 255, G: 249, B: 177},
	{R: 68, G: 202, B: 99},
	{R: 39, G: 142, B: 237},
	{R: 155, G: 105, B: 245},
	{R: 252, G: 142, B: 42},
	{R: 255, G: 255, B: 255},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    canvas.Color
	OnTapped func(canvas.Color)
}

func newColorSwatch(c canvas.Color, tapped func(canvas.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fcanvas.NewRectangle(s.Color.NRGBA())
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := fcanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolButton arms one tool and shows whether it is active.
type toolButton struct {
	button *widget.Button
	active func(engine.CanvasState) bool
}

// Toolbar holds the tool, history and color controls for one board.
type Toolbar struct {
	board *BoardWidget
	tools []toolButton
	undo  *widget.Button
	redo  *widget.Button
	del   *widget.Button

	// OnExport is called by the export button.
	OnExport func()

	content fyne.CanvasObject
}

// NewToolbar builds the toolbar for board.
func NewToolbar(board *BoardWidget) *Toolbar {
	t := &Toolbar{board: board}
	e := board.Engine()

	addTool := func(label string, icon fyne.Resource, s engine.CanvasState, active func(engine.CanvasState) bool) {
		btn := widget.NewButtonWithIcon(label, icon, func() {
			board.SetTool(s)
		})
		t.tools = append(t.tools, toolButton{button: btn, active: active})
	}
	inserting := func(lt canvas.LayerType) func(engine.CanvasState) bool {
		return func(s engine.CanvasState) bool {
			return s.Mode == engine.ModeInserting && s.LayerType == lt
		}
	}

	addTool("Select", theme.ViewRestoreIcon(), engine.None(), func(s engine.CanvasState) bool {
		switch s.Mode {
		case engine.ModeNone, engine.ModePressing, engine.ModeSelectionNet, engine.ModeTranslating, engine.ModeResizing:
			return true
		}
		return false
	})
	addTool("Text", theme.DocumentCreateIcon(), engine.Inserting(canvas.LayerText), inserting(canvas.LayerText))
	addTool("Note", theme.FileTextIcon(), engine.Inserting(canvas.LayerNote), inserting(canvas.LayerNote))
	addTool("Rectangle", theme.CheckButtonIcon(), engine.Inserting(canvas.LayerRectangle), inserting(canvas.LayerRectangle))
	addTool("Ellipse", theme.RadioButtonIcon(), engine.Inserting(canvas.LayerEllipse), inserting(canvas.LayerEllipse))
	addTool("Pen", theme.ColorPaletteIcon(), engine.Pencil(), func(s engine.CanvasState) bool {
		return s.Mode == engine.ModePencil
	})

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() {
		e.Undo()
		board.changed()
	})
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() {
		e.Redo()
		board.changed()
	})
	t.del = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		e.DeleteSelection()
		board.changed()
	})
	export := widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), func() {
		if t.OnExport != nil {
			t.OnExport()
		}
	})

	swatches := container.NewHBox()
	for _, c := range palette {
		swatches.Add(newColorSwatch(c, func(c canvas.Color) {
			e.SetFill(c)
			board.changed()
		}))
	}

	tools := container.NewHBox()
	for _, tb := range t.tools {
		tools.Add(tb.button)
	}
	t.content = container.NewHBox(
		tools,
		widget.NewSeparator(),
		t.undo, t.redo, t.del,
		widget.NewSeparator(),
		swatches,
		widget.NewSeparator(),
		export,
	)
	t.Update()
	return t
}

// Object returns the toolbar's canvas object.
func (t *Toolbar) Object() fyne.CanvasObject { return t.content }

// Update reflects the engine's mode and history in the buttons.
func (t *Toolbar) Update() {
	e := t.board.Engine()
	s := e.State()
	for _, tb := range t.tools {
		if tb.active(s) {
			tb.button.Importance = widget.HighImportance
		} else {
			tb.button.Importance = widget.MediumImportance
		}
		tb.button.Refresh()
	}
	setEnabled(t.undo, e.CanUndo())
	setEnabled(t.redo, e.CanRedo())
	setEnabled(t.del, len(e.Selection()) > 0)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
