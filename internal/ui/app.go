package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/engine"
	"LiveBoard/internal/state"
)

// App is the board window with its toolbar, participant list and status
// bar.
type App struct {
	fyneApp      fyne.App
	window       fyne.Window
	board        *BoardWidget
	toolbar      *Toolbar
	participants *Participants
	status       *widget.Label
	title        *widget.Label
	share        *fyne.Container
	exportDir    string
}

// NewApp builds the window for room. Nothing is shown until Run.
func NewApp(name, exportDir string, room *state.Room, eng *engine.Engine) *App {
	a := &App{
		fyneApp:   app.New(),
		status:    widget.NewLabel("Ready"),
		title:     widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		share:     container.NewHBox(),
		exportDir: exportDir,
	}
	a.window = a.fyneApp.NewWindow(windowTitle(name))
	a.window.Resize(fyne.NewSize(1200, 800))

	a.board = NewBoardWidget(room, eng)
	a.board.SetWindow(a.window)
	a.toolbar = NewToolbar(a.board)
	a.toolbar.OnExport = a.showExportDialog
	a.participants = NewParticipants(room)
	a.board.OnChange = func() {
		a.toolbar.Update()
		a.participants.Update()
	}

	header := container.NewHBox(a.title, a.share, layout.NewSpacer(), a.participants.Object())
	top := container.NewVBox(header, a.toolbar.Object())
	a.window.SetContent(container.NewBorder(top, a.status, nil, nil, a.board))
	a.addShortcuts()
	return a
}

func (a *App) addShortcuts() {
	shortcuts := []*desktop.CustomShortcut{
		{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
	}
	for _, s := range shortcuts {
		a.window.Canvas().AddShortcut(s, func(sc fyne.Shortcut) {
			a.board.TypedShortcut(sc)
		})
	}
}

func windowTitle(name string) string {
	return fmt.Sprintf("LiveBoard - %s", name)
}

// SetShareLink shows the link guests use to join, with a copy button.
// Call it before Run.
func (a *App) SetShareLink(link string) {
	a.share.Objects = []fyne.CanvasObject{
		widget.NewLabel(link),
		widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
			a.window.Clipboard().SetContent(link)
			a.status.SetText("Share link copied")
		}),
	}
	a.share.Refresh()
	a.status.SetText("Hosting at " + link)
}

// SetStatus updates the status bar. Safe to call from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() {
		a.status.SetText(text)
	})
}

// SetBoardName updates the board title. Safe to call from any goroutine.
func (a *App) SetBoardName(name string) {
	fyne.Do(func() {
		a.title.SetText(name)
		a.window.SetTitle(windowTitle(name))
	})
}

// SetPenColor changes the default fill. Safe to call from any goroutine.
func (a *App) SetPenColor(c canvas.Color) {
	fyne.Do(func() {
		a.board.Engine().SetPenColor(c)
	})
}

// SetExportDir sets where the export dialog opens. Safe to call from any
// goroutine.
func (a *App) SetExportDir(dir string) {
	fyne.Do(func() {
		a.exportDir = dir
	})
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.window.SetOnClosed(a.board.Close)
	a.window.ShowAndRun()
}
