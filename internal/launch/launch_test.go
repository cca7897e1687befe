package launch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"logviewer/internal/errors"
	"logviewer/internal/log"

	"github.com/alecthomas/assert"
)

func TestLaunchRegularFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	var buf bytes.Buffer
	l := New("true", log.NewLogger(log.WithOutput(&buf)))

	started, err := l.Launch(file)
	assert.NoError(t, err)
	assert.True(t, started)
	assert.Contains(t, buf.String(), "Launched external viewer")
	assert.Contains(t, buf.String(), "path="+file)
}

func TestLaunchDirectoryIsNoop(t *testing.T) {
	l := New("true", log.NewLogger(log.WithOutput(&bytes.Buffer{})))

	started, err := l.Launch(t.TempDir())
	assert.NoError(t, err)
	assert.False(t, started)
}

func TestLaunchFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	l := New("no-such-viewer-binary", log.NewLogger(log.WithOutput(&bytes.Buffer{})))
	assert.Equal(t, "no-such-viewer-binary", l.Binary())

	started, err := l.Launch(file)
	assert.False(t, started)
	assert.Equal(t, errors.LaunchFailed, errors.KindOf(err))

	started, err = l.Launch(filepath.Join(dir, "missing.log"))
	assert.False(t, started)
	assert.True(t, errors.IsFileNotFound(err))
}
