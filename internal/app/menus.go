package app

import (
	"fyne.io/fyne/v2"
)

// fileMenu builds File → Open and, when quit is non-nil, File → Quit.
func fileMenu(open, quit func()) *fyne.Menu {
	items := []*fyne.MenuItem{fyne.NewMenuItem("Open", open)}

	if quit != nil {
		quitItem := fyne.NewMenuItem("Quit", quit)
		quitItem.IsQuit = true
		items = append(items, fyne.NewMenuItemSeparator(), quitItem)
	}

	return fyne.NewMenu("File", items...)
}

func (a *Application) setupMenus() {
	var quit func()
	if a.supportsQuit {
		quit = func() {
			a.logger.Info("Application", "quit requested", nil)
			a.window.Close()
		}
	}

	open := func() {
		a.logger.Debug("Application", "open requested", nil)
		a.opener.Open(a.inbox)
	}

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu(open, quit)))
}
