package autosave

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/plugin"
)

// fakeAPI is a minimal plugin.DocumentAPI for autosave.
type fakeAPI struct {
	mu     sync.Mutex
	edited bool
	path   string
	saves  atomic.Int32
	config map[string]interface{}
	events *event.Manager
}

var _ plugin.DocumentAPI = (*fakeAPI)(nil)

func newFakeAPI(config map[string]interface{}) *fakeAPI {
	return &fakeAPI{config: config, events: event.NewManager(), path: "doc.txt"}
}

func (f *fakeAPI) Content() string { return "" }
func (f *fakeAPI) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}
func (f *fakeAPI) IsEdited() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edited
}
func (f *fakeAPI) setEdited(v bool) {
	f.mu.Lock()
	f.edited = v
	f.mu.Unlock()
}
func (f *fakeAPI) SaveDocument() error {
	f.saves.Add(1)
	f.setEdited(false)
	return nil
}
func (f *fakeAPI) SubscribeEvent(t event.Type, h event.Handler) { f.events.Subscribe(t, h) }
func (f *fakeAPI) RegisterCommand(string, plugin.CommandFunc) error {
	return fmt.Errorf("not supported")
}
func (f *fakeAPI) SetStatusMessage(string, ...interface{}) {}
func (f *fakeAPI) GetPluginConfigValue(_, key string) (interface{}, bool) {
	v, ok := f.config[key]
	return v, ok
}

func TestDisabledByDefault(t *testing.T) {
	api := newFakeAPI(nil)
	api.setEdited(true)
	p := New()
	require.NoError(t, p.Initialize(api))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Shutdown())
	assert.Equal(t, int32(0), api.saves.Load())
}

func TestIntervalSavesDirtyDocument(t *testing.T) {
	api := newFakeAPI(map[string]interface{}{"enabled": true, "interval": "10ms"})
	api.setEdited(true)
	p := New()
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	assert.Eventually(t, func() bool { return api.saves.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, api.IsEdited())
}

func TestSkipsDocumentWithoutPath(t *testing.T) {
	api := newFakeAPI(map[string]interface{}{"enabled": true, "interval": "5ms"})
	api.path = ""
	api.setEdited(true)
	p := New()
	require.NoError(t, p.Initialize(api))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, p.Shutdown())
	assert.Equal(t, int32(0), api.saves.Load())
}

func TestIdleSaveAfterModification(t *testing.T) {
	api := newFakeAPI(map[string]interface{}{"enabled": true, "interval": "1h", "idle": "10ms"})
	p := New()
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	api.setEdited(true)
	api.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{})
	assert.Eventually(t, func() bool { return api.saves.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestInvalidConfigFallsBack(t *testing.T) {
	api := newFakeAPI(map[string]interface{}{"enabled": "yes", "interval": "soon"})
	p := New().(*AutoSave)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()
	assert.False(t, p.enabled)
	assert.Equal(t, defaultInterval, p.interval)
}

func TestShutdownIsIdempotent(t *testing.T) {
	api := newFakeAPI(map[string]interface{}{"enabled": true, "interval": "1h"})
	p := New()
	require.NoError(t, p.Initialize(api))
	assert.NoError(t, p.Shutdown())
	assert.NoError(t, p.Shutdown())
}
