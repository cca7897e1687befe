// Package tree holds the directory tree shown next to the text pane. It is
// independent of any toolkit: front ends render VisibleRows or walk the
// nodes by path.
package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"logviewer/internal/errors"

	"github.com/gobwas/glob"
)

// Node represents a file or directory in the tree
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	IsOpen   bool
	Children []*Node
	Parent   *Node
	Level    int

	// Whether Children reflects the directory on disk
	loaded bool
}

// Options controls which entries are listed.
type Options struct {
	ShowHidden bool
	Exclude    []string
}

// Tree is a lazily loaded directory tree with a cursor over its visible
// rows.
type Tree struct {
	Root        *Node
	Cursor      int
	VisibleRows []*Node

	showHidden bool
	exclude    []glob.Glob
	index      map[string]*Node
}

// New creates a tree rooted at dir with the root's children loaded.
func New(dir string, opts Options) (*Tree, error) {
	t := &Tree{showHidden: opts.ShowHidden}
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid exclude pattern", pattern, errors.InvalidConfig, err)
		}
		t.exclude = append(t.exclude, g)
	}
	if err := t.SetDirectory(dir); err != nil {
		return nil, err
	}
	return t, nil
}

// SetDirectory replaces the root and rebuilds the tree.
func (t *Tree) SetDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return errors.NewFileError("cannot open directory", dir, kind, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	t.Root = &Node{
		Name:   filepath.Base(dir),
		Path:   dir,
		IsDir:  true,
		IsOpen: true,
	}
	t.index = map[string]*Node{dir: t.Root}
	t.Cursor = 0

	if err := t.Load(t.Root); err != nil {
		return err
	}
	t.UpdateVisibleRows()
	return nil
}

// Dir returns the root directory.
func (t *Tree) Dir() string {
	return t.Root.Path
}

// excluded reports whether an entry is hidden from the tree.
func (t *Tree) excluded(name string) bool {
	if !t.showHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range t.exclude {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Load reads the children of a directory node, sorted ascending by name.
func (t *Tree) Load(node *Node) error {
	if !node.IsDir {
		return nil
	}

	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return errors.NewFileError("cannot read directory", node.Path, errors.FileAccessDenied, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, old := range node.Children {
		t.forget(old)
	}
	node.Children = node.Children[:0]

	for _, entry := range entries {
		if t.excluded(entry.Name()) {
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		child := &Node{
			Name:   entry.Name(),
			Path:   filepath.Join(node.Path, entry.Name()),
			IsDir:  entry.IsDir(),
			Size:   size,
			Parent: node,
			Level:  node.Level + 1,
		}
		node.Children = append(node.Children, child)
		t.index[child.Path] = child
	}
	node.loaded = true
	return nil
}

func (t *Tree) forget(node *Node) {
	delete(t.index, node.Path)
	for _, child := range node.Children {
		t.forget(child)
	}
}

// Find returns the node for path if it has been loaded.
func (t *Tree) Find(path string) *Node {
	return t.index[path]
}

// Children returns the child paths of a directory, loading it on first
// use. Unknown paths and files have none.
func (t *Tree) Children(path string) []string {
	node := t.index[path]
	if node == nil || !node.IsDir {
		return nil
	}
	if !node.loaded {
		if err := t.Load(node); err != nil {
			return nil
		}
	}
	paths := make([]string, len(node.Children))
	for i, child := range node.Children {
		paths[i] = child.Path
	}
	return paths
}

// IsBranch reports whether path is a directory in the tree.
func (t *Tree) IsBranch(path string) bool {
	node := t.index[path]
	return node != nil && node.IsDir
}

// Reload re-reads the tree from disk, keeping open directories open and
// the cursor on the same path when it still exists.
func (t *Tree) Reload() error {
	open := map[string]bool{}
	var collect func(*Node)
	collect = func(n *Node) {
		if n.IsDir && n.IsOpen {
			open[n.Path] = true
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(t.Root)

	var cursorPath string
	if current := t.Current(); current != nil {
		cursorPath = current.Path
	}

	if err := t.SetDirectory(t.Root.Path); err != nil {
		return err
	}

	var reopen func(*Node)
	reopen = func(n *Node) {
		for _, c := range n.Children {
			if c.IsDir && open[c.Path] {
				c.IsOpen = true
				if err := t.Load(c); err == nil {
					reopen(c)
				}
			}
		}
	}
	reopen(t.Root)
	t.UpdateVisibleRows()

	for i, row := range t.VisibleRows {
		if row.Path == cursorPath {
			t.Cursor = i
			break
		}
	}
	return nil
}

// Current returns the node under the cursor.
func (t *Tree) Current() *Node {
	if t.Cursor < 0 || t.Cursor >= len(t.VisibleRows) {
		return nil
	}
	return t.VisibleRows[t.Cursor]
}

// Toggle expands or collapses the directory at the cursor.
func (t *Tree) Toggle() {
	node := t.Current()
	if node == nil || !node.IsDir {
		return
	}

	node.IsOpen = !node.IsOpen
	if node.IsOpen && !node.loaded {
		// An unreadable directory opens empty
		_ = t.Load(node)
	}
	t.UpdateVisibleRows()
}

// UpdateVisibleRows updates the list of visible rows based on which nodes are open
func (t *Tree) UpdateVisibleRows() {
	t.VisibleRows = t.VisibleRows[:0]
	t.addVisibleNode(t.Root)

	if t.Cursor >= len(t.VisibleRows) {
		t.Cursor = max(0, len(t.VisibleRows)-1)
	}
}

func (t *Tree) addVisibleNode(node *Node) {
	t.VisibleRows = append(t.VisibleRows, node)
	if node.IsOpen {
		for _, child := range node.Children {
			t.addVisibleNode(child)
		}
	}
}

// MoveUp moves the cursor up one row
func (t *Tree) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves the cursor down one row
func (t *Tree) MoveDown() {
	if t.Cursor < len(t.VisibleRows)-1 {
		t.Cursor++
	}
}

// MoveToParent moves the cursor to the parent of the current node
func (t *Tree) MoveToParent() {
	node := t.Current()
	if node == nil || node.Parent == nil {
		return
	}
	for i, row := range t.VisibleRows {
		if row == node.Parent {
			t.Cursor = i
			return
		}
	}
}
