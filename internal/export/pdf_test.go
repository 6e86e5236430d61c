package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

func TestWritePDF(t *testing.T) {
	room := state.NewRoom()
	room.AppendLayer("r", canvas.Layer{Type: canvas.LayerRectangle, X: 10, Y: 10, Width: 100, Height: 50, Fill: canvas.Color{R: 255}})
	room.AppendLayer("e", canvas.Layer{Type: canvas.LayerEllipse, X: 200, Y: 0, Width: 80, Height: 80})
	room.AppendLayer("n", canvas.Layer{Type: canvas.LayerNote, X: 0, Y: 300, Width: 100, Height: 100, Fill: canvas.Color{R: 255, G: 249, B: 177}, Value: "todo"})
	room.AppendLayer("t", canvas.Layer{Type: canvas.LayerText, X: 400, Y: 400, Width: 100, Height: 40, Value: "hello"})
	room.AppendLayer("p", canvas.StrokeToPathLayer([]canvas.PathPoint{
		{X: 0, Y: 0, Pressure: 0.5}, {X: 10, Y: 6, Pressure: 0.7}, {X: 20, Y: 3, Pressure: 0.2},
	}, canvas.Color{}))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, room))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePDF(&buf, state.NewRoom()), ErrEmptyBoard)
}

func TestFitScalesDown(t *testing.T) {
	tr := fit(canvas.Bounds{X: 100, Y: 50, Width: 2000, Height: 500}, 1000, 500)
	assert.Equal(t, 0.5, tr.scale)
	x, y := tr.point(100, 50)
	assert.Equal(t, margin, x)
	assert.Equal(t, margin, y)

	assert.Equal(t, 1.0, fit(canvas.Bounds{Width: 10, Height: 10}, 1000, 500).scale)
}
