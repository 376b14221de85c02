package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/logger"
	"github.com/bethropolis/tidetext/internal/plugin"
	"github.com/bethropolis/tidetext/internal/utils"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
	defaultIdle     = time.Duration(0) // 0 disables save-on-idle
)

// AutoSave periodically saves a dirty document that already has a path,
// and optionally saves once edits have been quiet for an idle period.
type AutoSave struct {
	api plugin.DocumentAPI

	mutex    sync.RWMutex // Protects config fields below
	enabled  bool
	interval time.Duration
	idle     time.Duration

	debouncer utils.Debouncer
	stopChan  chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
		idle:     defaultIdle,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and starts the save loop if enabled.
func (p *AutoSave) Initialize(api plugin.DocumentAPI) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.GetPluginConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	p.interval = readDuration(api, name, "interval", p.interval, false)
	p.idle = readDuration(api, name, "idle", p.idle, true)
	enabled, interval, idle := p.enabled, p.interval, p.idle
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v, Idle: %v", name, enabled, interval, idle)
	if !enabled {
		return nil
	}

	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.saverLoop(interval)

	if idle > 0 {
		api.SubscribeEvent(event.TypeBufferModified, func(e event.Event) bool {
			// Runs on the editing goroutine; only schedule, never save here.
			p.debouncer.Debounce(idle, p.saveIfModified)
			return false
		})
	}
	return nil
}

// readDuration parses a duration string from plugin config, falling back to def.
func readDuration(api plugin.DocumentAPI, pluginName, key string, def time.Duration, allowZero bool) time.Duration {
	v, ok := api.GetPluginConfigValue(pluginName, key)
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr {
		logger.Warnf("%s: Invalid type for '%s' config (%T), using default (%v)", pluginName, key, v, def)
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Warnf("%s: Invalid format for '%s' config ('%s'): %v. Using default (%v)", pluginName, key, s, err, def)
		return def
	}
	if d < 0 || (d == 0 && !allowZero) {
		logger.Warnf("%s: '%s' config must be positive ('%s'). Using default (%v)", pluginName, key, s, def)
		return def
	}
	return d
}

// Shutdown stops the save loop and any pending idle save.
func (p *AutoSave) Shutdown() error {
	p.debouncer.Stop()
	if p.stopChan == nil {
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.stopChan)
		p.wg.Wait()
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	})
	return nil
}

func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.saveIfModified()
		case <-p.stopChan:
			return
		}
	}
}

// saveIfModified saves the document when it is dirty and has a path.
func (p *AutoSave) saveIfModified() {
	p.mutex.RLock()
	enabled := p.enabled
	p.mutex.RUnlock()
	if !enabled || p.api == nil {
		return
	}

	if !p.api.IsEdited() {
		return
	}
	path := p.api.Path()
	if path == "" {
		logger.Debugf("%s: Document is modified but has no path, skipping auto-save.", p.Name())
		return
	}

	logger.Infof("%s: Auto-saving modified document: %s", p.Name(), path)
	if err := p.api.SaveDocument(); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), path, err)
	}
}
