//go:build nogui
// +build nogui

package gui

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}

func create(f *Factory) (Interface, error) {
	f.logger.Warn("GUI is disabled in this build, use the tui command")
	return nil, ErrUnavailable
}
