//go:build !js

package fileopen

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/dustin/go-humanize"

	"granny-viewer/internal/logger"
)

// SupportsQuit reports whether the platform offers File → Quit.
const SupportsQuit = true

// NativeOpener shows fyne's file dialog and reads the chosen file inside
// the dialog callback. Dialog and read failures are fatal.
type NativeOpener struct {
	window fyne.Window
	logger logger.Logger

	showDialog func(callback func(fyne.URIReadCloser, error))
	fatal      func(err error)
}

func New(window fyne.Window, log logger.Logger) *NativeOpener {
	o := &NativeOpener{
		window: window,
		logger: log,
	}
	o.showDialog = o.show
	o.fatal = func(err error) {
		o.logger.Error("FileOpener", err, map[string]interface{}{"fatal": true})
		os.Exit(1)
	}
	return o
}

func (o *NativeOpener) show(callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, o.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{Extension}))
	d.Show()
}

func (o *NativeOpener) Open(sink Sink) {
	o.showDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			o.fatal(err)
			return
		}
		if reader == nil {
			o.logger.Debug("FileOpener", "dialog cancelled", nil)
			return
		}
		defer reader.Close()

		msg, err := ReadMessage(reader, reader.URI().Name())
		if err != nil {
			o.fatal(err)
			return
		}

		o.logger.Info("FileOpener", "file read", map[string]interface{}{
			"id":   msg.ID,
			"name": msg.Name,
			"size": humanize.Bytes(uint64(len(msg.Data))),
		})
		sink.Send(msg)
	})
}
