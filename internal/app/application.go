package app

import (
	"context"
	"sync/atomic"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"granny-viewer/internal/config"
	"granny-viewer/internal/fileopen"
	"granny-viewer/internal/granny"
	"granny-viewer/internal/gui"
	"granny-viewer/internal/logger"
)

const (
	AppName       = "Granny Viewer"
	AppID         = "com.grannyviewer.app"
	AppVersion    = "0.1.0"
	WindowWidth   = 1100
	WindowHeight  = 720
	MinimumWidth  = 640
	MinimumHeight = 480
)

// OpenerFactory builds the file-opening service for a window.
type OpenerFactory func(window fyne.Window, log logger.Logger) fileopen.Service

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	guiManager *gui.Manager
	shell      *Shell
	inbox      *fileopen.Inbox
	opener     fileopen.Service
	frames     *FrameLoop
	lifecycle  *Lifecycle
	logger     logger.Logger

	supportsQuit bool
	running      atomic.Bool
}

// NewApplication creates the fyne application and wires the platform
// file opener and the granny parser.
func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	platformOpener := func(window fyne.Window, log logger.Logger) fileopen.Service {
		return fileopen.New(window, log)
	}
	return newApplication(fyneapp.NewWithID(AppID), cfg, log, platformOpener, granny.LoadFromBytes, fileopen.SupportsQuit), nil
}

func newApplication(fyneApp fyne.App, cfg config.Config, log logger.Logger, newOpener OpenerFactory, parse Parser, supportsQuit bool) *Application {
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":        AppVersion,
		"window_width":   WindowWidth,
		"window_height":  WindowHeight,
		"debug":          cfg.Debug,
		"frame_interval": cfg.FrameInterval.String(),
	})

	guiManager := gui.NewManager(log, cfg.Debug)
	inbox := fileopen.NewInbox()
	shell := NewShell(inbox, parse, guiManager, log)

	frames := NewFrameLoop(cfg.FrameInterval, func() {
		fyne.Do(func() { shell.Update() })
	}, log)

	application := &Application{
		fyneApp:      fyneApp,
		window:       window,
		guiManager:   guiManager,
		shell:        shell,
		inbox:        inbox,
		opener:       newOpener(window, log),
		frames:       frames,
		lifecycle:    NewLifecycle(frames, log),
		logger:       log,
		supportsQuit: supportsQuit,
	}

	application.setupMenus()
	window.SetContent(guiManager.GetMainContainer())

	log.Info("Application", "initialization complete", nil)
	return application
}

// Run shows the window and blocks until the fyne event loop exits.
func (a *Application) Run(ctx context.Context) error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.lifecycle.Shutdown()
		a.window.Close()
	})

	a.frames.Start(ctx)
	a.window.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.running.Store(true)
	a.fyneApp.Run()
	a.running.Store(false)

	a.lifecycle.Shutdown()
	return nil
}

// Shutdown stops background work and, while the event loop is running,
// asks fyne to quit. It is safe to call from any goroutine.
func (a *Application) Shutdown() {
	a.lifecycle.Shutdown()
	if a.running.Load() {
		fyne.Do(a.fyneApp.Quit)
	}
}
