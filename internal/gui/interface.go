package gui

import (
	"os"
	"runtime"

	"logviewer/internal/config"
	"logviewer/internal/errors"
	"logviewer/internal/log"
	"logviewer/internal/viewer"
)

// ErrUnavailable is returned by Factory.Create in builds without a
// desktop toolkit.
var ErrUnavailable = errors.New("GUI not available in this build")

// Interface defines the contract for GUI operations
type Interface interface {
	Run() error
	ShowError(title string, err error)
	ShowInfo(message string)
}

// Factory creates GUI instances
type Factory struct {
	config *config.Config
	ctrl   *viewer.Controller
	logger *log.Logger
}

// NewFactory creates a new GUI factory
func NewFactory(cfg *config.Config, ctrl *viewer.Controller, logger *log.Logger) *Factory {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		config: cfg,
		ctrl:   ctrl,
		logger: logger,
	}
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	return create(f)
}

// DisplayAvailable reports whether a window can be opened. On X11 and
// Wayland systems this needs DISPLAY or WAYLAND_DISPLAY.
func DisplayAvailable() bool {
	switch runtime.GOOS {
	case "windows", "darwin", "android", "ios":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
