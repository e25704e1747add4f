package event

import (
	"time"

	"github.com/google/uuid"
)

// Topics published by the editor.
const (
	TopicContentChanged Topic = "session.content.changed"
	TopicSaved          Topic = "session.saved"
	TopicSaveFailed     Topic = "session.save.failed"
	TopicCancelled      Topic = "session.cancelled"
	TopicClosed         Topic = "session.closed"
	TopicLayoutChanged  Topic = "layout.changed"
	TopicConfigReloaded Topic = "config.reloaded"
	TopicPluginLoaded   Topic = "plugin.loaded"
)

// Event is a published message.
type Event struct {
	ID        string
	Topic     Topic
	Source    string
	Timestamp time.Time
	Payload   any
}

// New returns an event with a fresh ID and the current time.
func New(topic Topic, source string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Topic:     topic,
		Source:    source,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
