// Package viewer is the controller between the front ends and the file
// model. Front ends translate toolkit events into Dispatch calls and render
// the State snapshot; the controller never touches a widget.
package viewer

import (
	"fmt"

	"logviewer/internal/config"
	"logviewer/internal/errors"
	"logviewer/internal/highlight"
	"logviewer/internal/launch"
	"logviewer/internal/log"
	"logviewer/internal/model"
	"logviewer/internal/tree"
	"logviewer/internal/validate"
	"logviewer/internal/watch"
)

// Action identifies a user command.
type Action int

const (
	ActionSelectDirectory Action = iota
	ActionSelectFile
	ActionActivate
	ActionReload
	ActionGotoLine
	ActionToggleHighlight
	ActionValidate
	ActionBackup
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionSelectDirectory:
		return "select-directory"
	case ActionSelectFile:
		return "select-file"
	case ActionActivate:
		return "activate"
	case ActionReload:
		return "reload"
	case ActionGotoLine:
		return "goto-line"
	case ActionToggleHighlight:
		return "toggle-highlight"
	case ActionValidate:
		return "validate"
	case ActionBackup:
		return "backup"
	case ActionQuit:
		return "quit"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Options configures a Controller.
type Options struct {
	MaxReadableSize int64
	ExternalViewer  string
	Tree            tree.Options
	Watch           bool
	WatchIgnore     []string
	Highlight       bool
	Engine          highlight.Engine
	ReportMode      string
	Logger          *log.Logger
}

// OptionsFromConfig maps the configuration file onto controller options.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) Options {
	var engine highlight.Engine = highlight.NewRules()
	if cfg.Highlight.Engine == config.EngineChroma {
		engine = highlight.NewChroma(cfg.Highlight.Style)
	}
	return Options{
		MaxReadableSize: cfg.Viewer.MaxReadableSize,
		ExternalViewer:  cfg.Viewer.ExternalViewer,
		Tree:            tree.Options{ShowHidden: cfg.Tree.ShowHidden, Exclude: cfg.Tree.Exclude},
		Watch:           cfg.Watch.Enabled,
		WatchIgnore:     cfg.Watch.Ignore,
		Highlight:       cfg.Highlight.Enabled,
		Engine:          engine,
		ReportMode:      cfg.Validation.Report,
		Logger:          logger,
	}
}

// Controller owns the model and everything derived from it. It is not safe
// for concurrent use.
type Controller struct {
	opts      Options
	model     *model.FileModel
	tree      *tree.Tree
	doc       *highlight.Document
	validator *validate.Validator
	launcher  *launch.Launcher
	watcher   *watch.Watcher
	logger    *log.Logger

	handlers map[Action]func(arg string) error

	highlight bool
	status    []string
	statusOK  bool
	schema    string
	quit      bool
}

// New creates a controller with no directory or file selected.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxReadableSize <= 0 {
		opts.MaxReadableSize = config.DefaultMaxReadableSize
	}
	if opts.Engine == nil {
		opts.Engine = highlight.NewRules()
	}

	c := &Controller{
		opts:      opts,
		model:     model.New(opts.MaxReadableSize),
		validator: validate.New(validate.WithMode(opts.ReportMode), validate.WithLogger(opts.Logger)),
		launcher:  launch.New(opts.ExternalViewer, opts.Logger),
		logger:    opts.Logger,
		highlight: opts.Highlight,
		doc:       highlight.NewDocument("", ""),
	}
	c.handlers = map[Action]func(string) error{
		ActionSelectDirectory: c.selectDirectory,
		ActionSelectFile:      c.selectFile,
		ActionActivate:        c.activate,
		ActionReload:          c.reload,
		ActionGotoLine:        c.gotoLine,
		ActionToggleHighlight: c.toggleHighlight,
		ActionValidate:        c.validate,
		ActionBackup:          c.backup,
		ActionQuit:            c.quitLoop,
	}
	return c
}

// Dispatch runs the handler for action. A failure is also put in the
// status pane and logged.
func (c *Controller) Dispatch(action Action, arg string) error {
	handler, ok := c.handlers[action]
	if !ok {
		err := errors.Newf("unknown action %s", action)
		c.fail(action, err)
		return err
	}

	c.logger.With(log.F("action", action.String()), log.F("arg", arg)).Debug("Dispatch")
	if err := handler(arg); err != nil {
		c.fail(action, err)
		return err
	}
	return nil
}

func (c *Controller) fail(action Action, err error) {
	c.status = []string{err.Error()}
	c.statusOK = false
	c.logger.With(log.ErrorFields(err)...).With(log.F("action", action.String())).Warn("Action failed")
}

func (c *Controller) selectDirectory(path string) error {
	if path == "" {
		return nil
	}
	c.model.SetDirectoryName(path)

	t, err := tree.New(path, c.opts.Tree)
	if err != nil {
		c.tree = nil
		return err
	}
	c.tree = t
	c.status = nil

	if c.opts.Watch {
		return c.watch(path)
	}
	return nil
}

// watch registers the directory for change detection, creating the
// watcher on first use.
func (c *Controller) watch(dir string) error {
	if c.watcher == nil {
		w, err := watch.New(c.opts.WatchIgnore, c.logger)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			w.Stop()
			return err
		}
		c.watcher = w
	}
	_, err := c.watcher.Watch(dir)
	return err
}

func (c *Controller) selectFile(path string) error {
	err := c.model.SetFileName(path)
	c.refresh()
	if err == nil {
		c.status = nil
	}
	return err
}

// refresh pulls the model back into the document.
func (c *Controller) refresh() {
	c.doc = highlight.NewDocument(c.model.FileName(), c.model.FileContents())
	if c.highlight {
		c.doc.ApplyHighlight(c.opts.Engine)
	}
}

func (c *Controller) activate(path string) error {
	_, err := c.launcher.Launch(path)
	return err
}

func (c *Controller) reload(string) error {
	if c.tree == nil {
		if dir := c.model.DirectoryName(); dir != "" {
			return c.selectDirectory(dir)
		}
		return nil
	}
	return c.tree.Reload()
}

func (c *Controller) gotoLine(text string) error {
	index, ok, err := highlight.ParseLine(text)
	if err != nil || !ok {
		return err
	}
	c.doc.MarkBlock(index)
	return nil
}

func (c *Controller) toggleHighlight(string) error {
	c.highlight = !c.highlight
	if c.highlight {
		c.doc.ApplyHighlight(c.opts.Engine)
	} else {
		c.doc.ClearHighlight()
	}
	return nil
}

func (c *Controller) validate(xsdPath string) error {
	c.schema = xsdPath
	report := c.validator.Validate(c.model.FileName(), xsdPath)
	c.status = report.Messages
	c.statusOK = report.OK
	return nil
}

func (c *Controller) backup(string) error {
	if err := c.model.WriteDoc(c.doc.Text()); err != nil {
		return err
	}
	c.status = []string{"Backup written to " + c.model.BackupPath()}
	c.statusOK = true
	return nil
}

func (c *Controller) quitLoop(string) error {
	c.quit = true
	c.Close()
	return nil
}

// HandleChange records a change reported by the watcher. Changes are only
// logged; the tree is refreshed by an explicit reload.
func (c *Controller) HandleChange(change watch.Change) {
	c.logger.With(log.F("path", change.Path), log.F("op", change.Op.String())).Info("File changed")
}

// Changes returns the watcher's channel, or nil when change detection is
// off or no directory has been selected.
func (c *Controller) Changes() <-chan watch.Change {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Changes()
}

// Tree returns the directory tree, or nil before a directory is chosen.
func (c *Controller) Tree() *tree.Tree {
	return c.tree
}

// Document returns the text pane's document.
func (c *Controller) Document() *highlight.Document {
	return c.doc
}

// Close releases the watcher.
func (c *Controller) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
		c.watcher = nil
	}
}

// State is a snapshot for rendering.
type State struct {
	Directory   string
	FileName    string
	Content     string
	Status      []string
	StatusOK    bool
	Highlighted bool
	Schema      string
	MarkedLine  int
	Quit        bool
}

// State returns the current snapshot. MarkedLine is 1-based and 0 when no
// line is marked.
func (c *Controller) State() State {
	return State{
		Directory:   c.model.DirectoryName(),
		FileName:    c.model.FileName(),
		Content:     c.model.FileContents(),
		Status:      append([]string(nil), c.status...),
		StatusOK:    c.statusOK,
		Highlighted: c.highlight,
		Schema:      c.schema,
		MarkedLine:  c.doc.MarkedBlock() + 1,
		Quit:        c.quit,
	}
}
