package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Notice is a dismissible error banner shown above the sidebar tree.
type Notice struct {
	container     *fyne.Container
	messageLabel  *widget.Label
	dismissButton *widget.Button
}

func NewNotice() *Notice {
	messageLabel := widget.NewLabel("")
	messageLabel.Importance = widget.DangerImportance
	messageLabel.Wrapping = fyne.TextWrapWord

	n := &Notice{messageLabel: messageLabel}
	n.dismissButton = widget.NewButtonWithIcon("", theme.CancelIcon(), n.Dismiss)
	n.dismissButton.Importance = widget.LowImportance

	n.container = container.NewBorder(
		nil, nil,
		widget.NewIcon(theme.ErrorIcon()),
		n.dismissButton,
		messageLabel,
	)
	n.container.Hide()

	return n
}

func (n *Notice) GetContainer() *fyne.Container {
	return n.container
}

func (n *Notice) Show(message string) {
	n.messageLabel.SetText(message)
	n.container.Show()
}

func (n *Notice) Dismiss() {
	n.messageLabel.SetText("")
	n.container.Hide()
}

func (n *Notice) Visible() bool {
	return n.container.Visible()
}

func (n *Notice) Message() string {
	return n.messageLabel.Text
}
