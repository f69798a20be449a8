package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const DebugWarningText = "Debug build"

// NewCanvas returns the central area. It is empty apart from a debug
// warning in debug mode.
func NewCanvas(debug bool) *fyne.Container {
	if !debug {
		return container.NewStack()
	}

	warning := widget.NewLabel(DebugWarningText)
	warning.Importance = widget.WarningImportance
	return container.NewStack(container.NewVBox(warning))
}
