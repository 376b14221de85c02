// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/tidetext/internal/event"
)

// CommandFunc defines the signature for commands registered by plugins.
type CommandFunc func(args []string) error

// DocumentAPI is the controlled surface plugins use to reach the document.
type DocumentAPI interface {
	// --- Document access ---
	Content() string
	Path() string
	IsEdited() bool

	// SaveDocument saves to the document's current path. Safe to call from
	// a plugin goroutine; never call it from inside an event handler.
	SaveDocument() error

	// --- Event bus ---
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Commands ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status ---
	SetStatusMessage(format string, args ...interface{})

	// --- Configuration ---
	// GetPluginConfigValue reads a key from the [plugins.<name>] config table.
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Used for setup,
	// subscribing to events and registering commands.
	Initialize(api DocumentAPI) error

	// Shutdown is called once when the application is closing.
	Shutdown() error
}
