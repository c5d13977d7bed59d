package controller

import (
	"slices"
	"strings"

	"todotxt/internal/notification"
	"todotxt/internal/settings"
	"todotxt/internal/todofile"
	"todotxt/internal/utils"
)

// Start opens the file named on the command line, or else the last open
// file, or else the configured default. Errors are published and returned.
func (c *Controller) Start() error {
	filename := c.args.File
	if filename == "" {
		filename = c.settings.LastOpenFile()
	}
	if filename == "" {
		filename = c.args.DefaultFile
	}

	var err error
	if filename != "" {
		err = c.Open(filename)
	}
	c.installWatch()

	c.applyFilters()
	c.updateTitle()
	return err
}

// Open loads path, replacing the open file. On error the current file stays
// open.
func (c *Controller) Open(path string) error {
	path = strings.TrimPrefix(path, "file://")
	c.logger.Debug("opening %s", path)

	if err := c.file.Load(path); err != nil {
		err = utils.ErrOpenFile(path, err)
		c.showError(err)
		return err
	}
	c.loadFileToUI()
	if err := c.settings.SetLastOpenFile(c.file.Filename()); err != nil {
		c.logger.Warn("failed to persist %s: %v", settings.KeyLastOpenFile, err)
	}
	for _, t := range c.file.Tasks() {
		t.OnModified(c.taskModified)
	}
	c.applyFilters()
	c.updateRecentFile()
	return nil
}

// Reload reads the open file again, discarding unsaved changes.
func (c *Controller) Reload() error {
	if c.file.Filename() == "" {
		err := utils.ErrNoFileOpen()
		c.showError(err)
		return err
	}
	return c.Open(c.file.Filename())
}

// New replaces the open file with an empty untitled one. It returns false
// and keeps the file when there are unsaved changes that could not be saved.
func (c *Controller) New() bool {
	if !c.CanExit() {
		return false
	}
	c.file.StopWatching()
	c.file = todofile.New()
	c.installWatch()
	c.loadFileToUI()
	c.applyFilters()
	return true
}

// Save writes the open file to disk.
func (c *Controller) Save() error {
	filename := c.file.Filename()
	c.logger.Debug("saving %s", filename)
	if filename == "" {
		err := utils.ErrNoFileOpen()
		c.showError(err)
		return err
	}
	return c.saveTo(filename)
}

// SaveAs writes the open file to path and keeps working on path.
func (c *Controller) SaveAs(path string) error {
	if path == "" {
		err := utils.ErrNoFileOpen()
		c.showError(err)
		return err
	}
	if err := c.saveTo(path); err != nil {
		return err
	}
	c.updateRecentFile()
	return nil
}

func (c *Controller) saveTo(path string) error {
	if err := c.file.Save(path); err != nil {
		err = utils.ErrSaveFile(path, err)
		c.showError(err)
		return err
	}
	if err := c.settings.SetLastOpenFile(c.file.Filename()); err != nil {
		c.logger.Warn("failed to persist %s: %v", settings.KeyLastOpenFile, err)
	}
	c.setModified(false)
	return nil
}

// AutoSave saves when auto_save is on and the file has a name.
func (c *Controller) AutoSave() {
	if !c.settings.AutoSave() || c.file.Filename() == "" {
		return
	}
	_ = c.Save()
}

// CanExit autosaves and reports whether nothing is left unsaved.
func (c *Controller) CanExit() bool {
	c.AutoSave()
	return !c.modified
}

// Close stops watching the open file.
func (c *Controller) Close() error {
	c.file.StopWatching()
	return nil
}

func (c *Controller) loadFileToUI() {
	c.setModified(false)
	c.updateTitle()
	c.rebuildTree()
}

func (c *Controller) installWatch() {
	if !c.watch {
		return
	}
	bus := c.bus
	err := c.file.Watch(c.watchDebounce, func(path string) {
		bus.Publish(notification.FileExternallyModified, path)
	})
	if err != nil {
		c.logger.Warn("cannot watch %s: %v", c.file.Filename(), err)
	}
}

func (c *Controller) updateRecentFile() {
	name := c.file.Filename()
	if name == "" {
		return
	}
	recent := slices.DeleteFunc(slices.Clone(c.recentFiles), func(f string) bool { return f == name })
	recent = slices.Insert(recent, 0, name)
	if limit := c.settings.MaxRecentFiles(); len(recent) > limit {
		recent = recent[:limit]
	}
	c.recentFiles = recent
	if err := c.settings.SetRecentFiles(recent); err != nil {
		c.logger.Warn("failed to persist recent files: %v", err)
	}
	c.bus.Publish(notification.RecentFilesChanged, c.RecentFiles())
}
