// Package controller owns the open todo file and derives the task list shown
// to the user from it. Every state change is published on a notification bus.
package controller

import (
	"path/filepath"
	"slices"
	"time"

	"todotxt/internal/filter"
	"todotxt/internal/notification"
	"todotxt/internal/settings"
	"todotxt/internal/task"
	"todotxt/internal/todofile"
	"todotxt/internal/utils"
)

// DefaultTitle is the title prefix used when Options.Title is empty.
const DefaultTitle = "TodoTxt"

// Args holds what the user asked for on the command line.
type Args struct {
	// File is opened by Start. When empty, the last open file is used.
	File string
	// DefaultFile is opened when neither File nor a last open file exists.
	DefaultFile string
}

// Options configures a Controller. Settings is required; the other fields
// have defaults.
type Options struct {
	Settings *settings.Settings
	File     *todofile.File
	Bus      *notification.Bus
	Logger   *utils.Logger
	Args     Args

	// Title is the prefix of the window title.
	Title string
	// Watch enables external modification events for the open file.
	Watch         bool
	WatchDebounce time.Duration
}

// Controller is not safe for concurrent use. Only the file watch runs on
// another goroutine, and it does nothing but publish an event.
type Controller struct {
	settings *settings.Settings
	file     *todofile.File
	bus      *notification.Bus
	logger   *utils.Logger
	args     Args

	titlePrefix   string
	watch         bool
	watchDebounce time.Duration

	filtered       []*task.Task
	currentFilters []filter.Group
	searchText     string
	showCompleted  bool
	showFuture     bool
	modified       bool
	title          string
	recentFiles    []string
	completion     []string
	tree           []filter.Node
}

// New creates a controller over an untitled file, or over opts.File.
func New(opts Options) *Controller {
	c := &Controller{
		settings:      opts.Settings,
		file:          opts.File,
		bus:           opts.Bus,
		logger:        opts.Logger,
		args:          opts.Args,
		titlePrefix:   opts.Title,
		watch:         opts.Watch,
		watchDebounce: opts.WatchDebounce,
	}
	if c.settings == nil {
		c.settings = settings.NewMemory()
	}
	if c.file == nil {
		c.file = todofile.New()
	}
	if c.bus == nil {
		c.bus = notification.NewBus()
	}
	if c.logger == nil {
		c.logger = utils.GetLogger()
	}
	if c.titlePrefix == "" {
		c.titlePrefix = DefaultTitle
	}

	c.showCompleted = c.settings.ShowCompleted()
	c.showFuture = c.settings.ShowFuture()
	c.recentFiles = c.settings.RecentFiles()
	for _, t := range c.file.Tasks() {
		t.OnModified(c.taskModified)
	}
	c.title = c.formatTitle()
	c.completion = c.buildCompletionStrings()
	c.tree = filter.BuildTree(c.file.Tasks(), c.showCompleted)
	c.filtered = slices.Clone(filter.Apply(c.Groups(), c.file.Tasks()))
	return c
}

// Bus returns the bus the controller publishes on.
func (c *Controller) Bus() *notification.Bus { return c.bus }

// File returns the open file.
func (c *Controller) File() *todofile.File { return c.file }

// Filename returns the path of the open file, or "" when untitled.
func (c *Controller) Filename() string { return c.file.Filename() }

// FilteredTasks returns the tasks currently shown, in file order except for
// tasks added since the last refilter.
func (c *Controller) FilteredTasks() []*task.Task { return slices.Clone(c.filtered) }

// SearchText returns the active search string.
func (c *Controller) SearchText() string { return c.searchText }

// ShowCompleted reports whether completed tasks are shown.
func (c *Controller) ShowCompleted() bool { return c.showCompleted }

// ShowFuture reports whether tasks due or starting after today are shown.
func (c *Controller) ShowFuture() bool { return c.showFuture }

// Title returns the window title.
func (c *Controller) Title() string { return c.title }

// Modified reports whether there are unsaved changes.
func (c *Controller) Modified() bool { return c.modified }

// RecentFiles returns recently opened files, most recent first.
func (c *Controller) RecentFiles() []string { return slices.Clone(c.recentFiles) }

// CompletionStrings returns the tokens offered while typing a task.
func (c *Controller) CompletionStrings() []string { return slices.Clone(c.completion) }

// CurrentFilters returns the filter groups selected by the user.
func (c *Controller) CurrentFilters() []filter.Group { return slices.Clone(c.currentFilters) }

// FilterTree returns the sidebar model for the open file.
func (c *Controller) FilterTree() []filter.Node { return c.tree }

// SetSearchText filters the list by a case-insensitive substring.
func (c *Controller) SetSearchText(text string) {
	if text == c.searchText {
		return
	}
	c.searchText = text
	c.applyFilters()
	c.bus.Publish(notification.SearchTextChanged, text)
}

// SetShowCompleted shows or hides completed tasks and persists the choice.
func (c *Controller) SetShowCompleted(show bool) {
	if show == c.showCompleted {
		return
	}
	c.showCompleted = show
	if err := c.settings.SetShowCompleted(show); err != nil {
		c.logger.Warn("failed to persist %s: %v", settings.KeyShowCompleted, err)
	}
	c.bus.Publish(notification.ShowCompletedChanged, show)
	c.applyFilters()
}

// SetShowFuture shows or hides tasks due or starting after today and
// persists the choice.
func (c *Controller) SetShowFuture(show bool) {
	if show == c.showFuture {
		return
	}
	c.showFuture = show
	if err := c.settings.SetShowFuture(show); err != nil {
		c.logger.Warn("failed to persist %s: %v", settings.KeyShowFuture, err)
	}
	c.bus.Publish(notification.ShowFutureChanged, show)
	c.applyFilters()
}

// SetFilters replaces the user-selected filter groups. No groups shows all
// tasks.
func (c *Controller) SetFilters(groups ...filter.Group) {
	c.currentFilters = slices.Clone(groups)
	c.applyFilters()
}

// FilterRequest selects a sidebar node. Heading nodes without a filter clear
// the selection.
func (c *Controller) FilterRequest(node filter.Node) {
	if node.Filter == nil {
		c.SetFilters()
		return
	}
	c.SetFilters(filter.Group{node.Filter})
}

// Groups returns the complete set of groups the list is filtered with: the
// selected filters, then search, future and completion visibility.
func (c *Controller) Groups() []filter.Group {
	groups := slices.Clone(c.currentFilters)
	if c.searchText != "" {
		groups = append(groups, filter.Group{filter.TextFilter{Text: c.searchText}})
	}
	if !c.showFuture {
		groups = append(groups, filter.Group{filter.Not(filter.FutureFilter{})})
	}
	if !c.showCompleted && !filter.AnyContains(c.currentFilters, filter.CompleteFilter{}) {
		groups = append(groups, filter.Group{filter.IncompleteFilter{}})
	}
	return groups
}

func (c *Controller) applyFilters() {
	c.filtered = slices.Clone(filter.Apply(c.Groups(), c.file.Tasks()))
	c.rebuildTree()
	c.bus.Publish(notification.FilteredTasksChanged, c.FilteredTasks())
}

func (c *Controller) rebuildTree() {
	c.tree = filter.BuildTree(c.file.Tasks(), c.showCompleted)
	c.bus.Publish(notification.FiltersChanged, c.tree)
}

func (c *Controller) setModified(modified bool) {
	changed := modified != c.modified
	c.modified = modified
	c.updateTitle()
	c.updateCompletionStrings()
	if changed {
		c.bus.Publish(notification.ModifiedChanged, modified)
	}
}

func (c *Controller) formatTitle() string {
	title := c.titlePrefix + " - "
	if name := c.file.Filename(); name != "" {
		title += filepath.Base(name)
	} else {
		title += "Untitled"
	}
	if c.modified {
		title += " (*)"
	}
	return title
}

func (c *Controller) updateTitle() {
	title := c.formatTitle()
	if title == c.title {
		return
	}
	c.title = title
	c.bus.Publish(notification.TitleChanged, title)
}

func (c *Controller) buildCompletionStrings() []string {
	var out []string
	for _, name := range c.file.AllContexts(true) {
		out = append(out, "@"+name)
	}
	for _, name := range c.file.AllProjects(true) {
		out = append(out, "+"+name)
	}
	for p := 'A'; p <= c.settings.LowestPriority(); p++ {
		out = append(out, "("+string(p)+")")
	}
	return append(out, "due:")
}

func (c *Controller) updateCompletionStrings() {
	completion := c.buildCompletionStrings()
	if slices.Equal(completion, c.completion) {
		return
	}
	c.completion = completion
	c.bus.Publish(notification.CompletionChanged, c.CompletionStrings())
}

// showError logs err and publishes it for the views.
func (c *Controller) showError(err error) {
	c.logger.Error("%v", err)
	c.bus.Publish(notification.Error, err)
}
