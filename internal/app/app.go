// internal/app/app.go
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bethropolis/tidetext/internal/config"
	"github.com/bethropolis/tidetext/internal/document"
	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/logger"
	"github.com/bethropolis/tidetext/internal/plugin"
	"github.com/bethropolis/tidetext/internal/storage"
)

// maxLineSize bounds a single command line read by Run.
const maxLineSize = 1 << 20

// App encapsulates the document, its collaborators and the command loop.
type App struct {
	cfg           *config.Config
	doc           *document.Document
	store         *storage.Router
	db            *storage.SQLiteStorage // nil unless configured
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	documentAPI   plugin.DocumentAPI

	commandsMu sync.RWMutex
	commands   map[string]plugin.CommandFunc

	// Status messages queued by commands and plugins, flushed after each line.
	statusMu sync.Mutex
	status   []string

	// Unparsed argument text of the command being executed. Only touched
	// by Execute and the commands it calls.
	lineArgs string

	quitting bool
}

// New creates and initializes an application instance. When path is
// non-empty it is loaded; a path that does not exist yet starts an empty
// document that will be saved there.
func New(cfg *config.Config, path string) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	// --- Create Core Components ---
	eventManager := event.NewManager()
	router := storage.NewRouter()
	if !cfg.Storage.Clipboard {
		router.Clipboard = nil
	}

	var db *storage.SQLiteStorage
	if cfg.Storage.SQLitePath != "" {
		var err error
		db, err = storage.OpenSQLiteStorage(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("storage initialization failed: %w", err)
		}
		router.DB = db
	}

	doc := document.New(router, document.Options{
		ReadOnly:     cfg.Editor.ReadOnly,
		JournalLimit: cfg.Editor.JournalLimit,
		MaxRedo:      cfg.Editor.MaxHistory,
		Events:       eventManager,
	})

	a := &App{
		cfg:           cfg,
		doc:           doc,
		store:         router,
		db:            db,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		commands:      make(map[string]plugin.CommandFunc),
	}
	a.documentAPI = newDocumentAPI(a)

	// --- Subscribe App level handlers ---
	eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoaded)
	eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
	eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)

	// --- Built-in commands, then plugins (which may add more) ---
	registerAppCommands(a)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.documentAPI); err != nil {
		logger.Warnf("App: plugin initialization: %v", err)
	}

	if path != "" {
		if err := doc.Load(path); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				a.Close()
				return nil, err
			}
			logger.Infof("App: '%s' does not exist yet, starting empty", path)
			doc.SetPath(path)
		}
	}

	return a, nil
}

// Run executes one command per line from r until EOF or :quit, writing
// status output and errors to w. Only read errors are returned; a failing
// command is reported to w and the loop continues.
func (a *App) Run(r io.Reader, w io.Writer) error {
	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	logger.Infof("App: ready (document '%s')", a.doc.Path())

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for !a.quitting && scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := a.Execute(line); err != nil {
			a.SetStatusMessage("error (line %d): %v", lineNo, err)
		}
		if err := a.flushStatus(w); err != nil {
			return fmt.Errorf("write status: %w", err)
		}
	}

	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	if a.doc.IsEdited() {
		logger.Warnf("App: exited with unsaved changes")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

// Execute parses and runs a single command line such as `:insert 0 "hi"`.
func (a *App) Execute(line string) error {
	line = strings.TrimPrefix(strings.TrimSpace(line), ":")
	if line == "" {
		return nil
	}

	name, rest, _ := strings.Cut(line, " ")
	args, err := splitArgs(rest)
	if err != nil {
		return fmt.Errorf("command '%s': %w", name, err)
	}

	a.commandsMu.RLock()
	cmdFunc, exists := a.commands[name]
	a.commandsMu.RUnlock()
	if !exists {
		return fmt.Errorf("unknown command: %s", name)
	}

	logger.Debugf("App: Executing command ':%s' with args %q", name, args)
	a.lineArgs = rest
	return cmdFunc(args)
}

// RegisterCommand adds a command to the registry.
func (a *App) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	a.commandsMu.Lock()
	defer a.commandsMu.Unlock()
	if _, exists := a.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	a.commands[name] = cmdFunc
	logger.Debugf("App: Registered command ':%s'", name)
	return nil
}

// SetStatusMessage queues a message for the next status flush.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	a.statusMu.Lock()
	a.status = append(a.status, msg)
	a.statusMu.Unlock()
}

func (a *App) flushStatus(w io.Writer) error {
	a.statusMu.Lock()
	pending := a.status
	a.status = nil
	a.statusMu.Unlock()

	for _, msg := range pending {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

// Document returns the open document.
func (a *App) Document() *document.Document { return a.doc }

// Events returns the application's event bus.
func (a *App) Events() *event.Manager { return a.eventManager }

// Plugins returns the plugin manager.
func (a *App) Plugins() *plugin.Manager { return a.pluginManager }

// Close shuts down plugins and releases storage.
func (a *App) Close() error {
	a.pluginManager.ShutdownPlugins()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}
