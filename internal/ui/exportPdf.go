package ui

import (
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LiveBoard/internal/export"
)

func (a *App) showExportDialog() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		a.exportTo(w)
	}, a.window)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if a.exportDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.exportDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

func (a *App) exportTo(w fyne.URIWriteCloser) {
	defer func() {
		if err := w.Close(); err != nil {
			log.Printf("[EXPORT] Error closing writer: %v", err)
		}
	}()

	if err := export.WritePDF(w, a.board.Engine()); err != nil {
		if errors.Is(err, export.ErrEmptyBoard) {
			a.status.SetText("Nothing to export")
			return
		}
		log.Printf("[EXPORT] Failed: %v", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetText(fmt.Sprintf("Exported %s", w.URI().Name()))
	log.Printf("[EXPORT] Wrote %s", w.URI())
}
