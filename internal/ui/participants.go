package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

const maxShownUsers = 2

// Participants lists who else is on the board.
type Participants struct {
	room *state.Room
	box  *fyne.Container
}

func NewParticipants(room *state.Room) *Participants {
	p := &Participants{room: room, box: container.NewHBox()}
	p.Update()
	return p
}

func (p *Participants) Object() fyne.CanvasObject { return p.box }

// Update rebuilds the list from the room's presence.
func (p *Participants) Update() {
	others := p.room.Others()
	objects := make([]fyne.CanvasObject, 0, maxShownUsers+2)
	for i, peer := range others {
		if i == maxShownUsers {
			break
		}
		objects = append(objects, avatar(fmt.Sprintf("User %d", peer.ConnectionID), canvas.ConnectionColor(peer.ConnectionID)))
	}
	self := p.room.ConnectionID()
	objects = append(objects, avatar(fmt.Sprintf("User %d (You)", self), canvas.ConnectionColor(self)))
	if len(others) > maxShownUsers {
		objects = append(objects, widget.NewLabel(fmt.Sprintf("+%d more", len(others)-maxShownUsers)))
	}
	p.box.Objects = objects
	p.box.Refresh()
}

func avatar(name string, c canvas.Color) fyne.CanvasObject {
	dot := fcanvas.NewCircle(c.NRGBA())
	return container.NewHBox(
		container.NewGridWrap(fyne.NewSize(12, 12), dot),
		widget.NewLabel(name),
	)
}
