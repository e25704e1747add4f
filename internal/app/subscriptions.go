package app

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/plugin/lua"
	"github.com/dshills/markpad/internal/renderer/statusline"
	"github.com/dshills/markpad/internal/session"
)

// notice is a status line message delivered to the event loop.
type notice struct {
	text string
	typ  statusline.MessageType
}

// quitRequest asks the event loop to exit.
type quitRequest struct{}

// refresh asks the event loop to redraw.
type refresh struct{}

// subscriptionManager manages event bus subscriptions for the application.
// Handlers may run on any goroutine, so they only log and post to the
// event loop.
type subscriptionManager struct {
	mu            sync.Mutex
	subscriptions []*event.Subscription
	app           *Application
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(app *Application) *subscriptionManager {
	return &subscriptionManager{app: app}
}

// setupSubscriptions registers all event subscriptions.
func (sm *subscriptionManager) setupSubscriptions() {
	sm.subscribe(event.TopicSaved, sm.handleSaved)
	sm.subscribe(event.TopicSaveFailed, sm.handleSaveFailed)
	sm.subscribe(event.TopicLayoutChanged, sm.handleLayoutChanged)
	sm.subscribe(event.TopicPluginLoaded, sm.handlePluginLoaded)
	sm.subscribe(event.TopicConfigReloaded, sm.handleConfigReloaded)
	sm.subscribe("session.*", sm.handleSessionEnded)
}

func (sm *subscriptionManager) subscribe(pattern event.Topic, h event.Handler) {
	sub := sm.app.bus.Subscribe(pattern, h)
	sm.mu.Lock()
	sm.subscriptions = append(sm.subscriptions, sub)
	sm.mu.Unlock()
}

// close unsubscribes everything.
func (sm *subscriptionManager) close() {
	sm.mu.Lock()
	subs := sm.subscriptions
	sm.subscriptions = nil
	sm.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (sm *subscriptionManager) handleSaved(ev event.Event) {
	p, _ := ev.Payload.(session.Saved)
	sm.app.metrics.RecordSave(true)
	sm.app.log.Info("saved note %s (%d code units)", p.SessionID, p.Length)
	sm.app.notify(statusline.MessageInfo, "Saved")
}

func (sm *subscriptionManager) handleSaveFailed(ev event.Event) {
	p, _ := ev.Payload.(session.SaveFailed)
	sm.app.metrics.RecordSave(false)
	sm.app.log.Error("save note %s: %v", p.SessionID, p.Err)
	sm.app.notify(statusline.MessageError, "Save failed: %v", p.Err)
}

func (sm *subscriptionManager) handleLayoutChanged(ev event.Event) {
	p, _ := ev.Payload.(session.LayoutChanged)
	sm.app.log.Debug("layout %s", layoutLabel(p.State))
	sm.app.post(refresh{})
}

func (sm *subscriptionManager) handlePluginLoaded(ev event.Event) {
	p, _ := ev.Payload.(lua.Loaded)
	sm.app.log.Debug("plugin %s available as %s", p.Name, p.Action)
}

func (sm *subscriptionManager) handleConfigReloaded(ev event.Event) {
	p, _ := ev.Payload.(Reloaded)
	if p.Err != nil {
		sm.app.notify(statusline.MessageError, "Reload failed: %v", p.Err)
		return
	}
	sm.app.notify(statusline.MessageInfo, "Configuration reloaded")
}

// handleSessionEnded logs cancel and close events.
func (sm *subscriptionManager) handleSessionEnded(ev event.Event) {
	p, ok := ev.Payload.(session.Ended)
	if !ok {
		return
	}
	sm.app.log.Info("session %s %s (modified=%t)", p.SessionID, ev.Topic.Segments()[1], p.Modified)
}

// handlerPanicked is the bus panic handler. The stack goes to the log and
// a short notice to the status line.
func (app *Application) handlerPanicked(ev event.Event, recovered any) {
	err := &RecoveredPanicError{Value: recovered, Stack: string(debug.Stack())}
	app.log.Error("handler for %s: %v", ev.Topic, err)
	app.notify(statusline.MessageError, "Handler for %s failed: %v", ev.Topic, recovered)
}

// notify shows a status line message.
func (app *Application) notify(typ statusline.MessageType, format string, args ...any) {
	app.post(notice{text: fmt.Sprintf(format, args...), typ: typ})
}

// post delivers data to the event loop as an interrupt. Before the loop
// is ready the data is queued.
func (app *Application) post(data any) {
	app.mu.Lock()
	if !app.ready {
		if _, ok := data.(notice); ok {
			app.queued = append(app.queued, data)
		}
		app.mu.Unlock()
		return
	}
	b := app.backend
	app.mu.Unlock()

	if err := b.PostInterrupt(data); err != nil {
		app.log.Debug("post %T: %v", data, err)
	}
}

// drainQueued marks the loop ready and applies queued notices.
func (app *Application) drainQueued() {
	app.mu.Lock()
	app.ready = true
	queued := app.queued
	app.queued = nil
	app.mu.Unlock()

	for _, data := range queued {
		app.handleInterrupt(data)
	}
}
