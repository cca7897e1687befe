// Package launch opens files in the external viewer program.
package launch

import (
	"os"
	"os/exec"

	"logviewer/internal/errors"
	"logviewer/internal/log"
)

// Launcher starts the external viewer with a single file argument.
type Launcher struct {
	binary string
	logger *log.Logger
}

// New creates a launcher for the given program name or path.
func New(binary string, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Launcher{binary: binary, logger: logger}
}

// Binary returns the configured program.
func (l *Launcher) Binary() string {
	return l.binary
}

// Launch starts the viewer on path when it is a regular file and reports
// whether a process was started. Directories and other non-regular paths
// are ignored. The process is not waited on for its exit status.
func (l *Launcher) Launch(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.NewFileError("cannot launch viewer", path, errors.FileNotFound, err)
	}
	if !info.Mode().IsRegular() {
		l.logger.With(log.F("path", path)).Debug("Not a regular file, nothing to launch")
		return false, nil
	}

	binary, err := exec.LookPath(l.binary)
	if err != nil {
		return false, errors.NewFileError("viewer program not found", l.binary, errors.LaunchFailed, err)
	}

	cmd := exec.Command(binary, path)
	if err := cmd.Start(); err != nil {
		return false, errors.NewFileError("cannot start viewer", path, errors.LaunchFailed, err)
	}
	// Reap the child so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()

	l.logger.With(log.F("viewer", binary), log.F("path", path), log.F("pid", cmd.Process.Pid)).Info("Launched external viewer")
	return true, nil
}
