// internal/app/document_api.go
package app

import (
	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/plugin"
)

// Ensure appDocumentAPI implements the plugin.DocumentAPI interface.
var _ plugin.DocumentAPI = (*appDocumentAPI)(nil)

// appDocumentAPI adapts App to what plugins are allowed to touch.
type appDocumentAPI struct {
	app *App
}

func newDocumentAPI(app *App) *appDocumentAPI {
	return &appDocumentAPI{app: app}
}

// --- Document Access ---

func (api *appDocumentAPI) Content() string { return api.app.doc.Content() }
func (api *appDocumentAPI) Path() string    { return api.app.doc.Path() }
func (api *appDocumentAPI) IsEdited() bool  { return api.app.doc.IsEdited() }

func (api *appDocumentAPI) SaveDocument() error {
	return api.app.doc.Save("")
}

// --- Event Bus Interaction ---

func (api *appDocumentAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Commands and Status ---

func (api *appDocumentAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.RegisterCommand(name, cmdFunc)
}

func (api *appDocumentAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Configuration ---

func (api *appDocumentAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}
