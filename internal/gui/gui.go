//go:build !nogui

package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"logviewer/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(1000, 700))

	a.dirLabel = widget.NewLabel("")
	a.fileLabel = widget.NewLabel("")
	a.status = widget.NewLabel("")
	a.status.Wrapping = fyne.TextWrapWord

	a.tree = widget.NewTree(a.childUIDs, a.isBranch,
		func(bool) fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(filepath.Base(uid))
		},
	)
	a.tree.OnSelected = a.onSelected

	a.text = widget.NewTextGrid()
	a.text.ShowLineNumbers = true

	a.gotoEntry = widget.NewEntry()
	a.gotoEntry.SetPlaceHolder("Line")
	a.gotoEntry.OnSubmitted = a.gotoLine

	a.highlight = widget.NewCheck("Highlight", func(bool) {
		a.toggleHighlight()
	})

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Directory", theme.FolderOpenIcon(), a.chooseDirectory),
		widget.NewButtonWithIcon("Reload", theme.ViewRefreshIcon(), a.reload),
		widget.NewButtonWithIcon("Open externally", theme.ComputerIcon(), a.activateSelected),
		widget.NewButtonWithIcon("Validate", theme.ConfirmIcon(), a.chooseSchema),
		widget.NewButtonWithIcon("Backup", theme.DocumentSaveIcon(), a.backup),
		a.highlight,
		widget.NewLabel("Go to:"),
		container.NewGridWrap(fyne.NewSize(80, a.gotoEntry.MinSize().Height), a.gotoEntry),
	)

	header := container.NewVBox(toolbar, a.dirLabel, a.fileLabel)
	split := container.NewHSplit(a.tree, container.NewScroll(a.text))
	split.Offset = 0.3

	a.mainWindow.SetContent(container.NewBorder(header, a.status, nil, nil, split))
	a.setupShortcuts()
	a.refresh()
	a.listen()
}

func (a *App) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	t := a.ctrl.Tree()
	if t == nil {
		return nil
	}
	if uid == "" {
		return t.Children(t.Dir())
	}
	return t.Children(uid)
}

func (a *App) isBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return a.ctrl.Tree() != nil
	}
	t := a.ctrl.Tree()
	return t != nil && t.IsBranch(uid)
}

func (a *App) onSelected(uid widget.TreeNodeID) {
	a.selected = uid
	if a.isBranch(uid) {
		a.tree.ToggleBranch(uid)
		return
	}
	a.openFile(uid)
}

// dispatch runs an action and redraws. Failures are already in the
// controller's status, so they only need a redraw.
func (a *App) dispatch(action viewer.Action, arg string) error {
	err := a.ctrl.Dispatch(action, arg)
	a.refreshStatus()
	return err
}

func (a *App) chooseDirectory() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			a.ShowError("Cannot open directory", err)
			return
		}
		if dir == nil {
			return
		}
		a.openDirectory(dir.Path())
	}, a.mainWindow)
}

func (a *App) openDirectory(path string) {
	if err := a.dispatch(viewer.ActionSelectDirectory, path); err == nil {
		a.selected = ""
		a.tree.UnselectAll()
	}
	a.refresh()
	a.listen()
}

func (a *App) openFile(path string) {
	_ = a.dispatch(viewer.ActionSelectFile, path)
	a.refresh()
}

func (a *App) reload() {
	_ = a.dispatch(viewer.ActionReload, "")
	a.tree.Refresh()
	a.listen()
}

func (a *App) activateSelected() {
	if a.selected == "" {
		return
	}
	_ = a.dispatch(viewer.ActionActivate, a.selected)
}

func (a *App) gotoLine(text string) {
	if err := a.dispatch(viewer.ActionGotoLine, text); err != nil {
		return
	}
	a.refreshText()
	a.scrollToMark()
}

func (a *App) toggleHighlight() {
	if a.highlight.Checked == a.ctrl.State().Highlighted {
		return
	}
	_ = a.dispatch(viewer.ActionToggleHighlight, "")
	a.refreshText()
}

func (a *App) chooseSchema() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.ShowError("Cannot open schema", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		a.validate(path)
	}, a.mainWindow)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".xsd"}))
	d.Show()
}

func (a *App) validate(xsdPath string) {
	_ = a.dispatch(viewer.ActionValidate, xsdPath)
}

func (a *App) backup() {
	_ = a.dispatch(viewer.ActionBackup, "")
}

// refresh redraws every pane from the controller state.
func (a *App) refresh() {
	a.tree.Refresh()
	a.refreshText()
	a.refreshStatus()
}

func (a *App) refreshText() {
	state := a.ctrl.State()

	dir := state.Directory
	if dir == "" {
		dir = "(none)"
	}
	a.dirLabel.SetText("Directory: " + dir)

	file := "(none)"
	if state.FileName != "" {
		file = state.FileName
	}
	if state.MarkedLine > 0 {
		file += fmt.Sprintf("  (line %d)", state.MarkedLine)
	}
	a.fileLabel.SetText("File: " + file)

	a.highlight.Checked = state.Highlighted
	a.highlight.Refresh()

	a.text.Rows = gridRows(a.ctrl.Document().Blocks())
	a.text.Refresh()
}

func (a *App) refreshStatus() {
	state := a.ctrl.State()
	a.status.SetText(strings.Join(state.Status, "\n"))
	switch {
	case len(state.Status) == 0:
		a.status.Importance = widget.MediumImportance
	case state.StatusOK:
		a.status.Importance = widget.SuccessImportance
	default:
		a.status.Importance = widget.DangerImportance
	}
	a.status.Refresh()
}

// scrollToMark moves the marked line to the top of the text pane.
func (a *App) scrollToMark() {
	marked := a.ctrl.Document().MarkedBlock()
	if marked < 0 {
		return
	}
	scroll, ok := a.textScroll()
	if !ok {
		return
	}
	lineHeight := fyne.MeasureText("M", theme.TextSize(), fyne.TextStyle{Monospace: true}).Height
	scroll.Offset = fyne.NewPos(0, float32(marked)*lineHeight)
	scroll.Refresh()
}

func (a *App) textScroll() (*container.Scroll, bool) {
	border, ok := a.mainWindow.Content().(*fyne.Container)
	if !ok {
		return nil, false
	}
	for _, obj := range border.Objects {
		if split, ok := obj.(*container.Split); ok {
			scroll, ok := split.Trailing.(*container.Scroll)
			return scroll, ok
		}
	}
	return nil, false
}
