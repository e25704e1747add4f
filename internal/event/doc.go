// Package event is a small synchronous publish/subscribe bus.
//
// Topics are dotted names such as "session.saved". Subscriptions use
// patterns where "*" matches exactly one segment and "**" matches zero or
// more:
//
//	bus := event.NewBus()
//	sub := bus.Subscribe("session.*", func(ev event.Event) {
//	    log.Info("%s", ev.Topic)
//	})
//	defer sub.Unsubscribe()
//
// Handlers run on the publisher's goroutine in subscription order. A
// panicking handler is recovered and reported to the bus's panic handler;
// the remaining handlers still run.
package event
