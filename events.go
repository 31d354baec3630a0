package recs

// EventHandler receives the data passed to Events.Emit.
type EventHandler func(data any)

// Events is the queued event channel of an entity or a space. Emitted events
// are buffered and delivered when the channel is ticked during World.Update.
// Events emitted by a handler while the channel is ticked are delivered on
// the next tick.
type Events struct {
	_ noCopy

	handlers map[string][]*subscription
	curr     []queuedEvent
	prev     []queuedEvent
}

type queuedEvent struct {
	Topic string
	Data  any
}

type subscription struct {
	handler EventHandler
	active  bool
}

// On registers a handler for a topic. The returned function removes it again.
func (e *Events) On(topic string, handler EventHandler) (unsubscribe func()) {
	if e.handlers == nil {
		e.handlers = map[string][]*subscription{}
	}

	sub := &subscription{handler: handler, active: true}
	e.handlers[topic] = append(e.handlers[topic], sub)

	return func() {
		if !sub.active {
			return
		}

		sub.active = false

		subs := e.handlers[topic]
		for idx, candidate := range subs {
			if candidate == sub {
				e.handlers[topic] = append(subs[:idx:idx], subs[idx+1:]...)
				break
			}
		}
	}
}

// Emit queues an event for the next tick.
func (e *Events) Emit(topic string, data any) {
	e.curr = append(e.curr, queuedEvent{Topic: topic, Data: data})
}

// Pending returns the number of queued events.
func (e *Events) Pending() int {
	return len(e.curr)
}

// Tick delivers all events queued before this call.
func (e *Events) Tick() {
	if len(e.curr) == 0 {
		return
	}

	e.curr, e.prev = e.prev, e.curr

	for _, event := range e.prev {
		for _, sub := range e.handlers[event.Topic] {
			// the handler might have been removed by a previous handler
			if sub.active {
				sub.handler(event.Data)
			}
		}
	}

	// reuse the memory of the delivered buffer
	clear(e.prev)
	e.prev = e.prev[:0]
}

// Reset drops all handlers and queued events.
func (e *Events) Reset() {
	for _, subs := range e.handlers {
		for _, sub := range subs {
			sub.active = false
		}
	}

	clear(e.handlers)

	clear(e.curr)
	e.curr = e.curr[:0]
}
