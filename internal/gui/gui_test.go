//go:build !nogui

package gui

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logviewer/internal/config"
	"logviewer/internal/highlight"
	"logviewer/internal/log"
	"logviewer/internal/validate"
	"logviewer/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int main() {\n  return 0;\n}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("one\ntwo\nthree\nfour"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "inner.log"), []byte("inner"), 0644))

	logger := log.NewLogger(log.WithOutput(&bytes.Buffer{}))
	ctrl := viewer.New(viewer.Options{ExternalViewer: "true", Logger: logger})
	t.Cleanup(ctrl.Close)

	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)
	return newApp(fyneApp, config.New(), ctrl, logger), dir
}

func TestAppInitialLayout(t *testing.T) {
	a, _ := setupApp(t)

	rootContainer, ok := a.GetMainWindow().Content().(*fyne.Container)
	require.True(t, ok, "window content should be a border container")
	require.NotNil(t, rootContainer)

	assert.Equal(t, "Directory: (none)", a.dirLabel.Text)
	assert.Equal(t, "File: (none)", a.fileLabel.Text)
	assert.Nil(t, a.childUIDs(""))
	assert.False(t, a.isBranch(""))

	_, ok = a.textScroll()
	assert.True(t, ok)
}

func TestAppOpenDirectoryAndFile(t *testing.T) {
	a, dir := setupApp(t)

	a.openDirectory(dir)
	assert.Equal(t, "Directory: "+dir, a.dirLabel.Text)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.c"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "sub"),
	}, a.childUIDs(""))
	assert.True(t, a.isBranch(filepath.Join(dir, "sub")))
	assert.Equal(t, []string{filepath.Join(dir, "sub", "inner.log")}, a.childUIDs(filepath.Join(dir, "sub")))

	a.tree.Select(filepath.Join(dir, "notes.txt"))
	assert.Equal(t, "File: "+filepath.Join(dir, "notes.txt"), a.fileLabel.Text)
	assert.Equal(t, "one\ntwo\nthree\nfour", a.text.Text())

	// Selecting a directory toggles it and leaves the text alone
	a.tree.Select(filepath.Join(dir, "sub"))
	assert.True(t, a.tree.IsBranchOpen(filepath.Join(dir, "sub")))
	assert.Equal(t, "one\ntwo\nthree\nfour", a.text.Text())
}

func TestAppOpenMissingDirectory(t *testing.T) {
	a, dir := setupApp(t)

	a.openDirectory(filepath.Join(dir, "missing"))
	assert.Equal(t, widget.DangerImportance, a.status.Importance)
	assert.NotEmpty(t, a.status.Text)
	assert.Nil(t, a.childUIDs(""))
}

func TestAppGotoLine(t *testing.T) {
	a, dir := setupApp(t)
	a.openFile(filepath.Join(dir, "notes.txt"))

	a.gotoEntry.SetText("3")
	a.gotoEntry.OnSubmitted(a.gotoEntry.Text)

	assert.Equal(t, 3, a.ctrl.State().MarkedLine)
	assert.Contains(t, a.fileLabel.Text, "(line 3)")
	row := a.text.Row(2)
	require.NotEmpty(t, row.Cells)
	assert.Equal(t, markedBackground, row.Cells[0].Style.BackgroundColor())
	assert.Nil(t, a.text.Row(0).Cells[0].Style.BackgroundColor())

	a.gotoLine("nope")
	assert.Equal(t, 3, a.ctrl.State().MarkedLine)
	assert.Equal(t, widget.DangerImportance, a.status.Importance)
}

func TestAppHighlightToggle(t *testing.T) {
	a, dir := setupApp(t)
	a.openFile(filepath.Join(dir, "a.c"))

	a.highlight.SetChecked(true)
	assert.True(t, a.ctrl.State().Highlighted)
	// "int" is a keyword in the default rules
	assert.Equal(t, palette[highlight.Keyword], a.text.Row(0).Cells[0].Style.TextColor())

	a.highlight.SetChecked(false)
	assert.False(t, a.ctrl.State().Highlighted)
	assert.Nil(t, a.text.Row(0).Cells[0].Style.TextColor())
}

func TestAppValidateAndBackup(t *testing.T) {
	a, dir := setupApp(t)

	a.validate(filepath.Join(dir, "schema.xsd"))
	assert.Equal(t, validate.NoFileMessage, a.status.Text)

	a.openFile(filepath.Join(dir, "notes.txt"))
	a.backup()
	assert.Equal(t, widget.SuccessImportance, a.status.Importance)
	assert.True(t, strings.HasPrefix(a.status.Text, "Backup written to"))
}

func TestAppReloadAndActivate(t *testing.T) {
	a, dir := setupApp(t)
	a.openDirectory(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), nil, 0644))
	a.reload()
	assert.Contains(t, a.childUIDs(""), filepath.Join(dir, "b.log"))

	// Nothing selected is a no-op
	a.activateSelected()
	assert.Empty(t, a.status.Text)

	a.selected = filepath.Join(dir, "notes.txt")
	a.activateSelected()
	assert.Empty(t, a.status.Text)
}

func TestGridRows(t *testing.T) {
	rows := gridRows([]highlight.Block{
		{Text: "ab // c", Spans: []highlight.Span{{Start: 3, End: 7, Style: highlight.Comment}}},
		{Text: "é#", Spans: []highlight.Span{{Start: 0, End: 2, Style: highlight.Plain, Color: "#102030"}}},
		{Marked: true},
	})
	require.Len(t, rows, 3)

	assert.Len(t, rows[0].Cells, 7)
	assert.Nil(t, rows[0].Cells[0].Style.TextColor())
	assert.Equal(t, palette[highlight.Comment], rows[0].Cells[3].Style.TextColor())
	assert.Equal(t, palette[highlight.Comment], rows[0].Cells[6].Style.TextColor())

	// Offsets are bytes: the two-byte rune is one cell
	require.Len(t, rows[1].Cells, 2)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, rows[1].Cells[0].Style.TextColor())
	assert.Nil(t, rows[1].Cells[1].Style.TextColor())

	require.Len(t, rows[2].Cells, 1)
	assert.Equal(t, markedBackground, rows[2].Cells[0].Style.BackgroundColor())
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 128, A: 255}, parseHex("#ff0080"))
	assert.Nil(t, parseHex(""))
	assert.Nil(t, parseHex("ff0080"))
	assert.Nil(t, parseHex("#zzzzzz"))
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory(nil, viewer.New(viewer.Options{Logger: log.NewLogger(log.WithOutput(&bytes.Buffer{}))}), nil)
	assert.NotNil(t, f.config)
	assert.NotNil(t, f.logger)
}
