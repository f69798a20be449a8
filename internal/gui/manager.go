package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"granny-viewer/internal/granny"
	"granny-viewer/internal/gui/components"
	"granny-viewer/internal/logger"
	"granny-viewer/internal/render"
)

const SidebarOffset = 0.3

// Manager owns the window layout: sidebar on the left, canvas in the
// centre. The menu bar is installed by the application.
type Manager struct {
	logger logger.Logger

	notice  *components.Notice
	sidebar *components.Sidebar
	canvas  *fyne.Container
	split   *container.Split
}

func NewManager(log logger.Logger, debug bool) *Manager {
	notice := components.NewNotice()
	sidebar := components.NewSidebar(notice)
	canvas := components.NewCanvas(debug)

	split := container.NewHSplit(sidebar.GetContainer(), canvas)
	split.SetOffset(SidebarOffset)

	log.Debug("GUIManager", "layout initialized", map[string]interface{}{
		"sidebar_offset": SidebarOffset,
		"debug":          debug,
	})

	return &Manager{
		logger:  log,
		notice:  notice,
		sidebar: sidebar,
		canvas:  canvas,
		split:   split,
	}
}

func (m *Manager) GetMainContainer() fyne.CanvasObject {
	return m.split
}

func (m *Manager) Sidebar() *components.Sidebar {
	return m.sidebar
}

func (m *Manager) Notice() *components.Notice {
	return m.notice
}

// ShowFile renders file into the sidebar and clears any pending notice.
func (m *Manager) ShowFile(name string, size int, file *granny.File) {
	nodes := render.Elements(file.RootElements)
	m.notice.Dismiss()
	m.sidebar.ShowFile(name, size, nodes)

	m.logger.Debug("GUIManager", "tree rebuilt", map[string]interface{}{
		"name":  name,
		"roots": len(nodes),
		"nodes": render.Count(nodes),
	})
}

func (m *Manager) ShowNotice(message string) {
	m.notice.Show(message)
}
