//go:build !nogui

package gui

import (
	"fmt"

	"logviewer/internal/config"
	"logviewer/internal/log"
	"logviewer/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	ctrl       *viewer.Controller
	logger     *log.Logger

	tree      *widget.Tree
	text      *widget.TextGrid
	dirLabel  *widget.Label
	fileLabel *widget.Label
	status    *widget.Label
	gotoEntry *widget.Entry
	highlight *widget.Check

	selected  string // Last path picked in the tree
	listening bool
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return DisplayAvailable()
}

func create(f *Factory) (Interface, error) {
	return NewApp(f.config, f.ctrl, f.logger), nil
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, ctrl *viewer.Controller, logger *log.Logger) *App {
	return newApp(app.NewWithID("io.github.logviewer"), cfg, ctrl, logger)
}

func newApp(fyneApp fyne.App, cfg *config.Config, ctrl *viewer.Controller, logger *log.Logger) *App {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		ctrl:    ctrl,
		logger:  logger,
	}
	a.mainWindow = fyneApp.NewWindow("Log Viewer")
	a.setupMainWindow()
	return a
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() error {
	a.mainWindow.ShowAndRun()
	return nil
}

// GetMainWindow returns the main window for testing purposes
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// setupShortcuts binds ctrl+q to quit and F5 to reload.
func (a *App) setupShortcuts() {
	a.mainWindow.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		a.quit()
	})
	a.mainWindow.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		if ke.Name == fyne.KeyF5 {
			a.reload()
		}
	})
	a.mainWindow.SetCloseIntercept(a.quit)
}

func (a *App) quit() {
	_ = a.ctrl.Dispatch(viewer.ActionQuit, "")
	a.fyneApp.Quit()
}

// ShowError displays an error message
func (a *App) ShowError(message string, err error) {
	a.logger.With(log.ErrorFields(err)...).Error(message)
	dialog.ShowError(fmt.Errorf("%s: %w", message, err), a.mainWindow)
}

// ShowInfo displays an information message
func (a *App) ShowInfo(message string) {
	a.logger.Info(message)
	dialog.ShowInformation("Info", message, a.mainWindow)
}

// listen forwards watcher changes to the controller once a watcher
// exists. HandleChange only logs, so it may run off the UI goroutine.
func (a *App) listen() {
	if a.listening {
		return
	}
	ch := a.ctrl.Changes()
	if ch == nil {
		return
	}
	a.listening = true
	go func() {
		for change := range ch {
			a.ctrl.HandleChange(change)
		}
	}()
}
