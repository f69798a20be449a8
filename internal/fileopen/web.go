//go:build js && wasm

package fileopen

import (
	"errors"
	"fmt"
	"syscall/js"

	"fyne.io/fyne/v2"
	"github.com/dustin/go-humanize"

	"granny-viewer/internal/logger"
)

// SupportsQuit reports whether the platform offers File → Quit. A browser
// tab is closed by the user, not the page.
const SupportsQuit = false

// WebOpener drives a hidden <input type=file> from a goroutine. The
// goroutine parks on channels fed by DOM callbacks, so the render loop
// keeps running while the picker is open.
type WebOpener struct {
	logger logger.Logger
}

func New(_ fyne.Window, log logger.Logger) *WebOpener {
	return &WebOpener{logger: log}
}

func (o *WebOpener) Open(sink Sink) {
	go func() {
		file, ok := pickFile()
		if !ok {
			o.logger.Debug("FileOpener", "dialog cancelled", nil)
			return
		}

		data, err := readFile(file)
		msg := NewMessage(file.Get("name").String(), data, err)
		if err != nil {
			o.logger.Error("FileOpener", err, map[string]interface{}{"id": msg.ID, "name": msg.Name})
			sink.Send(msg)
			return
		}

		o.logger.Info("FileOpener", "file read", map[string]interface{}{
			"id":   msg.ID,
			"name": msg.Name,
			"size": humanize.Bytes(uint64(len(msg.Data))),
		})
		sink.Send(msg)
	}()
}

func pickFile() (js.Value, bool) {
	doc := js.Global().Get("document")
	input := doc.Call("createElement", "input")
	input.Set("type", "file")
	input.Set("accept", Extension)

	picked := make(chan js.Value, 1)
	onChange := js.FuncOf(func(this js.Value, args []js.Value) any {
		files := input.Get("files")
		if files.Length() == 0 {
			picked <- js.Null()
			return nil
		}
		picked <- files.Index(0)
		return nil
	})
	onCancel := js.FuncOf(func(this js.Value, args []js.Value) any {
		picked <- js.Null()
		return nil
	})
	defer onChange.Release()
	defer onCancel.Release()

	input.Call("addEventListener", "change", onChange)
	input.Call("addEventListener", "cancel", onCancel)
	input.Call("click")

	file := <-picked
	if file.IsNull() || file.IsUndefined() {
		return js.Value{}, false
	}
	return file, true
}

func readFile(file js.Value) ([]byte, error) {
	type result struct {
		buf js.Value
		err error
	}
	done := make(chan result, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- result{buf: args[0]}
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		reason := "unknown error"
		if len(args) > 0 && args[0].Truthy() {
			reason = args[0].Call("toString").String()
		}
		done <- result{err: errors.New(reason)}
		return nil
	})
	defer onResolve.Release()
	defer onReject.Release()

	file.Call("arrayBuffer").Call("then", onResolve).Call("catch", onReject)

	res := <-done
	if res.err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Get("name").String(), res.err)
	}

	view := js.Global().Get("Uint8Array").New(res.buf)
	data := make([]byte, view.Get("length").Int())
	js.CopyBytesToGo(data, view)
	return data, nil
}
