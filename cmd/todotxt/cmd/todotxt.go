package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todotxt/internal/config"
	"todotxt/internal/controller"
	"todotxt/internal/filter"
	"todotxt/internal/notification"
	"todotxt/internal/settings"
	"todotxt/internal/shutdown"
	"todotxt/internal/task"
	"todotxt/internal/tui"
	"todotxt/internal/utils"
)

// Version is set at build time
var Version = "dev"

// Result codes for CLI output (used in no-prompt mode)
const (
	ResultActionCompleted = "ACTION_COMPLETED"
	ResultInfoOnly        = "INFO_ONLY"
	ResultError           = "ERROR"
)

// cleanupTimeout bounds how long closing the file and settings may take.
const cleanupTimeout = 5 * time.Second

// Config holds application configuration
type Config struct {
	NoPrompt     bool
	Verbose      bool
	ConfigPath   string    // Path to config file (for testing)
	SettingsPath string    // Path to settings database (for testing)
	Stdin        io.Reader // Answers to confirmation prompts
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	rootCmd := NewTodoTxt(stdout, stderr, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if containsJSONFlag(args) {
			outputErrorJSON(err, stdout)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			if cfg != nil && cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultError)
			}
		}
		return 1
	}
	return 0
}

// containsJSONFlag checks if args contain --json flag
func containsJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

// NewTodoTxt creates the root command with injectable IO
func NewTodoTxt(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := &cobra.Command{
		Use:   "todotxt [file]",
		Short: "A todo.txt task manager",
		Long: "todotxt manages tasks stored in a todo.txt file.\n\n" +
			"Without a subcommand it opens the terminal interface when run in a\n" +
			"terminal, and prints the task list otherwise.",
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("file", args[0]); err != nil {
					return err
				}
			}
			if isTerminal(stdout) {
				return runTUI(cmd, cfg, stderr)
			}

			a, err := openApp(cmd, cfg, stderr, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return printTasks(a.ctrl, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cmd.PersistentFlags().StringP("file", "f", "", "todo.txt file to open")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	cmd.PersistentFlags().BoolP("no-prompt", "y", false, "Disable interactive prompts")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	cmd.AddCommand(newListCmd(stdout, stderr, cfg))
	cmd.AddCommand(newAddCmd(stdout, stderr, cfg))
	cmd.AddCommand(newDoneCmd(stdout, stderr, cfg))
	cmd.AddCommand(newRemoveCmd(stdout, stderr, cfg))
	cmd.AddCommand(newArchiveCmd(stdout, stderr, cfg))
	cmd.AddCommand(newRecentCmd(stdout, stderr, cfg))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// app is the controller together with everything it needs cleaned up.
type app struct {
	conf     *config.Config
	settings *settings.Settings
	ctrl     *controller.Controller
	shutdown *shutdown.Manager
}

type appOptions struct {
	// interactive keeps setting changes, logs to the log file and watches
	// the open file. One-shot commands read the settings but never write
	// them.
	interactive bool
}

// openApp loads the config and settings and starts a controller on the file
// named by --file, the last open file or the configured default.
func openApp(cmd *cobra.Command, cfg *Config, stderr io.Writer, opts appOptions) (*app, error) {
	logger := utils.GetLogger()
	logger.SetOutput(stderr)

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = cfg.ConfigPath
	}
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	verbose = verbose || cfg.Verbose || conf.IsVerbose()
	utils.SetVerboseMode(verbose)

	mgr := shutdown.NewManager()
	if opts.interactive {
		if err := logger.OpenLogFile(conf.GetLogFile()); err != nil {
			logger.Warn("%v", err)
		}
		mgr.RegisterCleanup("log file", func(context.Context) error {
			logger.Close()
			logger.SetOutput(stderr)
			return nil
		})
	}

	s, err := openSettings(cfg, conf)
	if err != nil {
		return nil, err
	}
	mgr.RegisterCleanup("settings", func(context.Context) error {
		return s.Close()
	})
	ctrlSettings := s
	if !opts.interactive {
		ctrlSettings = s.Snapshot()
	}

	bus := notification.NewBus()
	if opts.interactive || verbose {
		unsubscribe := notification.LogEvents(bus, logger)
		mgr.RegisterCleanup("event log", func(context.Context) error {
			unsubscribe()
			return nil
		})
	}

	file, _ := cmd.Flags().GetString("file")
	ctrl := controller.New(controller.Options{
		Settings:      ctrlSettings,
		Bus:           bus,
		Logger:        logger,
		Args:          controller.Args{File: file, DefaultFile: conf.GetTodoFile()},
		Title:         conf.GetTitle(),
		Watch:         opts.interactive && conf.IsWatchEnabled(),
		WatchDebounce: conf.GetWatchDebounce(),
	})
	mgr.RegisterCleanup("controller", func(context.Context) error {
		if opts.interactive {
			ctrl.AutoSave()
		}
		return ctrl.Close()
	})

	a := &app{conf: conf, settings: s, ctrl: ctrl, shutdown: mgr}
	if err := ctrl.Start(); err != nil {
		if file != "" {
			a.Close()
			return nil, err
		}
		logger.Warn("%v", err)
	}
	return a, nil
}

// openSettings opens the settings database, falling back to in-memory
// settings when it cannot be opened.
func openSettings(cfg *Config, conf *config.Config) (*settings.Settings, error) {
	path := cfg.SettingsPath
	if path == "" {
		path = conf.GetSettingsPath()
	}

	var store settings.Store
	sqliteStore, err := settings.OpenSQLite(path)
	if err != nil {
		utils.Warnf("settings will not be saved: %v", err)
		store = settings.NewMemoryStore()
	} else {
		store = sqliteStore
	}

	s, err := settings.New(store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// Close runs the registered cleanups.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := a.shutdown.Wait(ctx); err != nil {
		utils.Warnf("cleanup: %v", err)
	}
}

// requireFile fails when no file could be opened.
func (a *app) requireFile() error {
	if a.ctrl.Filename() == "" {
		return utils.ErrNoFileOpen()
	}
	return nil
}

// save writes pending changes. Mutations autosave unless auto_save is off.
func (a *app) save() error {
	if !a.ctrl.Modified() {
		return nil
	}
	return a.ctrl.Save()
}

// runTUI opens the terminal interface until the user quits or a signal
// arrives.
func runTUI(cmd *cobra.Command, cfg *Config, stderr io.Writer) error {
	a, err := openApp(cmd, cfg, stderr, appOptions{interactive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	a.shutdown.HandleSignals()
	err = tui.Run(a.ctrl, tea.WithContext(a.shutdown.Context()))
	if a.shutdown.IsShutdown() && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// newListCmd creates the 'list' subcommand
func newListCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list",
		Long: "Print the tasks of the open file, numbered for use with done and rm.\n" +
			"Completed and future tasks follow the saved show settings unless\n" +
			"--all or --future is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg, stderr, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			all, _ := cmd.Flags().GetBool("all")
			future, _ := cmd.Flags().GetBool("future")
			search, _ := cmd.Flags().GetString("search")
			contexts, _ := cmd.Flags().GetStringSlice("context")
			projects, _ := cmd.Flags().GetStringSlice("project")

			if all {
				a.ctrl.SetShowCompleted(true)
			}
			if all || future {
				a.ctrl.SetShowFuture(true)
			}
			a.ctrl.SetFilters(listGroups(contexts, projects)...)
			a.ctrl.SetSearchText(search)

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return printTasks(a.ctrl, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd.Flags().StringP("search", "s", "", "Only tasks containing this text")
	listCmd.Flags().BoolP("all", "a", false, "Include completed and future tasks")
	listCmd.Flags().Bool("future", false, "Include tasks due or starting after today")
	listCmd.Flags().StringSlice("context", nil, "Only tasks with one of these contexts (without @)")
	listCmd.Flags().StringSlice("project", nil, "Only tasks with one of these projects (without +)")

	return listCmd
}

// listGroups turns --context and --project into filter groups. Values of one
// flag are ORed, the two flags are ANDed.
func listGroups(contexts, projects []string) []filter.Group {
	var groups []filter.Group
	if len(contexts) > 0 {
		var g filter.Group
		for _, c := range contexts {
			g = append(g, filter.ContextFilter{Context: strings.TrimPrefix(c, "@")})
		}
		groups = append(groups, g)
	}
	if len(projects) > 0 {
		var g filter.Group
		for _, p := range projects {
			g = append(g, filter.ProjectFilter{Project: strings.TrimPrefix(p, "+")})
		}
		groups = append(groups, g)
	}
	return groups
}

// newAddCmd creates the 'add' subcommand
func newAddCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueStr, _ := cmd.Flags().GetString("due")
			due, err := utils.ParseDateFlag(dueStr)
			if err != nil {
				return err
			}
			priStr, _ := cmd.Flags().GetString("priority")
			priority, err := utils.ParsePriority(priStr)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, cfg, stderr, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireFile(); err != nil {
				return err
			}

			// The new task is visible at the returned position even when
			// the current filters would hide it.
			idx := a.ctrl.NewTask(strings.Join(args, " "), -1)
			t, err := a.ctrl.TaskAt(idx)
			if err != nil {
				return err
			}
			if priority != 0 {
				if err := a.ctrl.SetTaskPriority(t, priority); err != nil {
					return err
				}
			}
			if due != nil {
				if err := a.ctrl.SetTaskDueDate(t, due); err != nil {
					return err
				}
			}
			if err := a.save(); err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return reportAction(cmd, cfg, stdout, jsonOutput, "add", t, fileIndex(a.ctrl, t), "Added task")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, today, tomorrow, +3d, +1w, +1m)")
	addCmd.Flags().StringP("priority", "p", "", "Priority letter A-Z")

	return addCmd
}

// newDoneCmd creates the 'done' subcommand
func newDoneCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "done INDEX",
		Short: "Mark a task complete",
		Long:  "Mark the task at INDEX of 'todotxt list' complete.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := openAtIndex(cmd, cfg, stderr, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			if t.IsComplete() {
				return utils.WrapWithSuggestion(
					fmt.Errorf("task already complete: %s", t.Text()),
					"Run 'todotxt list --all' to see completed tasks",
				)
			}
			if err := a.ctrl.ToggleComplete(t); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return reportAction(cmd, cfg, stdout, jsonOutput, "done", t, 0, "Completed task")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newRemoveCmd creates the 'rm' subcommand
func newRemoveCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "rm INDEX",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long:    "Delete the task at INDEX of 'todotxt list'.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := openAtIndex(cmd, cfg, stderr, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			if !confirm(cmd, cfg, stdout, fmt.Sprintf("Delete %q?", t.Text())) {
				_, _ = fmt.Fprintln(stdout, "Cancelled")
				return nil
			}
			n, _ := strconv.Atoi(args[0])
			if err := a.ctrl.DeleteByIndex(n - 1); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return reportAction(cmd, cfg, stdout, jsonOutput, "delete", t, 0, "Deleted task")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// openAtIndex opens the app and resolves a 1-based index of the default
// list view.
func openAtIndex(cmd *cobra.Command, cfg *Config, stderr io.Writer, arg string) (*app, *task.Task, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, nil, utils.WrapWithSuggestion(
			fmt.Errorf("invalid task index: %s", arg),
			"Use the number shown by 'todotxt list'",
		)
	}

	a, err := openApp(cmd, cfg, stderr, appOptions{})
	if err != nil {
		return nil, nil, err
	}
	if err := a.requireFile(); err != nil {
		a.Close()
		return nil, nil, err
	}
	if shown := len(a.ctrl.FilteredTasks()); n < 1 || n > shown {
		a.Close()
		return nil, nil, utils.ErrTaskIndexOutOfRange(n, shown)
	}
	t, err := a.ctrl.TaskAt(n - 1)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, t, nil
}

// newArchiveCmd creates the 'archive' subcommand
func newArchiveCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move completed tasks to done.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg, stderr, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireFile(); err != nil {
				return err
			}

			completed := 0
			for _, t := range a.ctrl.File().Tasks() {
				if t.IsComplete() {
					completed++
				}
			}
			jsonOutput, _ := cmd.Flags().GetBool("json")
			if completed == 0 {
				return reportCount(cmd, cfg, stdout, jsonOutput, "archive", 0, "No completed tasks to archive")
			}

			prompt := fmt.Sprintf("Move %d completed tasks to %s?", completed, a.ctrl.File().DoneFilename())
			if !confirm(cmd, cfg, stdout, prompt) {
				_, _ = fmt.Fprintln(stdout, "Cancelled")
				return nil
			}

			moved, err := a.ctrl.ArchiveCompletedTasks()
			if saveErr := a.save(); err == nil {
				err = saveErr
			}
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Archived %d tasks to %s", moved, a.ctrl.File().DoneFilename())
			return reportCount(cmd, cfg, stdout, jsonOutput, "archive", moved, msg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newRecentCmd creates the 'recent' subcommand
func newRecentCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger()
			logger.SetOutput(stderr)

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = cfg.ConfigPath
			}
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			s, err := openSettings(cfg, conf)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			recent := s.RecentFiles()
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				if recent == nil {
					recent = []string{}
				}
				return writeJSON(stdout, recentFilesResponse{Files: recent, Result: ResultInfoOnly})
			}
			if len(recent) == 0 {
				_, _ = fmt.Fprintln(stdout, "No recent files")
				return nil
			}
			for _, f := range recent {
				_, _ = fmt.Fprintln(stdout, f)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newVersionCmd creates the 'version' subcommand
func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(stdout, "todotxt %s\n", Version)
		},
	}
}

// confirm asks before a destructive action unless prompts are disabled.
func confirm(cmd *cobra.Command, cfg *Config, stdout io.Writer, prompt string) bool {
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	if noPrompt || cfg.NoPrompt {
		return true
	}
	stdin := cfg.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	return utils.PromptYesNoWithReader(prompt, stdin, stdout)
}

// fileIndex returns the 1-based position of t in the default list view, or
// 0 when the view hides it.
func fileIndex(ctrl *controller.Controller, t *task.Task) int {
	for i, shown := range ctrl.FilteredTasks() {
		if shown == t {
			return i + 1
		}
	}
	return 0
}

// printTasks writes the filtered tasks, numbered from 1.
func printTasks(ctrl *controller.Controller, stdout io.Writer, jsonOutput bool) error {
	tasks := ctrl.FilteredTasks()
	if jsonOutput {
		return outputTaskListJSON(tasks, ctrl.Filename(), stdout)
	}

	if ctrl.Filename() == "" {
		_, _ = fmt.Fprintln(stdout, "No file open")
		return nil
	}
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(stdout, "No tasks")
		return nil
	}
	width := len(strconv.Itoa(len(tasks)))
	for i, t := range tasks {
		_, _ = fmt.Fprintf(stdout, "%*d %s\n", width, i+1, t.Text())
	}
	return nil
}

// reportAction prints the outcome of a task mutation.
func reportAction(cmd *cobra.Command, cfg *Config, stdout io.Writer, jsonOutput bool, action string, t *task.Task, index int, msg string) error {
	if jsonOutput {
		return outputActionJSON(action, t, index, stdout)
	}
	if index > 0 {
		_, _ = fmt.Fprintf(stdout, "%s %d: %s\n", msg, index, t.Text())
	} else {
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", msg, t.Text())
	}
	if noPrompt, _ := cmd.Flags().GetBool("no-prompt"); noPrompt || cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

func reportCount(cmd *cobra.Command, cfg *Config, stdout io.Writer, jsonOutput bool, action string, count int, msg string) error {
	if jsonOutput {
		return writeJSON(stdout, countResponse{Action: action, Count: count, Result: ResultActionCompleted})
	}
	_, _ = fmt.Fprintln(stdout, msg)
	if noPrompt, _ := cmd.Flags().GetBool("no-prompt"); noPrompt || cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

// JSON output structures
type taskJSON struct {
	Index     int      `json:"index,omitempty"`
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Priority  string   `json:"priority,omitempty"`
	Contexts  []string `json:"contexts,omitempty"`
	Projects  []string `json:"projects,omitempty"`
	DueDate   *string  `json:"due_date,omitempty"`
	Complete  bool     `json:"complete"`
	Completed *string  `json:"completed,omitempty"`
}

type listTasksResponse struct {
	Tasks  []taskJSON `json:"tasks"`
	File   string     `json:"file"`
	Count  int        `json:"count"`
	Result string     `json:"result"`
}

type actionResponse struct {
	Action string   `json:"action"`
	Task   taskJSON `json:"task"`
	Result string   `json:"result"`
}

type countResponse struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
	Result string `json:"result"`
}

type recentFilesResponse struct {
	Files  []string `json:"files"`
	Result string   `json:"result"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Result string `json:"result"`
}

// taskToJSON converts a task.Task to taskJSON
func taskToJSON(t *task.Task, index int) taskJSON {
	result := taskJSON{
		Index:    index,
		ID:       t.ID(),
		Text:     t.Text(),
		Contexts: t.Contexts(),
		Projects: t.Projects(),
		Complete: t.IsComplete(),
	}
	if p := t.Priority(); p != 0 {
		result.Priority = string(p)
	}
	if d := t.DueDate(); d != nil {
		s := d.Format(task.DateFormat)
		result.DueDate = &s
	}
	if d := t.CompletionDate(); d != nil {
		s := d.Format(task.DateFormat)
		result.Completed = &s
	}
	return result
}

// outputTaskListJSON outputs tasks in JSON format
func outputTaskListJSON(tasks []*task.Task, file string, stdout io.Writer) error {
	jsonTasks := make([]taskJSON, 0, len(tasks))
	for i, t := range tasks {
		jsonTasks = append(jsonTasks, taskToJSON(t, i+1))
	}
	return writeJSON(stdout, listTasksResponse{
		Tasks:  jsonTasks,
		File:   file,
		Count:  len(jsonTasks),
		Result: ResultInfoOnly,
	})
}

// outputActionJSON outputs action result in JSON format
func outputActionJSON(action string, t *task.Task, index int, stdout io.Writer) error {
	return writeJSON(stdout, actionResponse{
		Action: action,
		Task:   taskToJSON(t, index),
		Result: ResultActionCompleted,
	})
}

// outputErrorJSON outputs error in JSON format
func outputErrorJSON(err error, stdout io.Writer) {
	_ = writeJSON(stdout, errorResponse{
		Error:  err.Error(),
		Code:   1,
		Result: ResultError,
	})
}

func writeJSON(stdout io.Writer, v any) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}
