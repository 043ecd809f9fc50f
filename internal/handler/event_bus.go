// internal/handler/event_bus.go
package handler

import (
	"sync"

	"go.uber.org/zap"

	"escpos-service/internal/model"
)

const (
	eventQueueSize      = 1000
	subscriberQueueSize = 100
)

// EventBus fans job and printer events out to subscribers. Publish never
// blocks; events are dropped when the queue or a subscriber is full.
type EventBus struct {
	subscribers map[model.EventType][]chan model.Event
	all         []chan model.Event
	events      chan model.Event
	done        chan struct{}
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[model.EventType][]chan model.Event),
		events:      make(chan model.Event, eventQueueSize),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Start distributes events until Stop is called
func (eb *EventBus) Start() {
	for {
		select {
		case event := <-eb.events:
			eb.distributeEvent(event)
		case <-eb.done:
			return
		}
	}
}

// Stop ends distribution and closes every subscriber channel
func (eb *EventBus) Stop() {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	select {
	case <-eb.done:
		return
	default:
	}
	close(eb.done)

	for _, subs := range eb.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
	eb.subscribers = make(map[model.EventType][]chan model.Event)
	eb.all = nil
}

// Publish queues an event
func (eb *EventBus) Publish(event model.Event) {
	select {
	case eb.events <- event:
	default:
		eb.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.EventType)),
		)
	}
}

// Subscribe returns a channel receiving events of eventType, or every event
// when eventType is empty
func (eb *EventBus) Subscribe(eventType model.EventType) <-chan model.Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan model.Event, subscriberQueueSize)
	if eventType == "" {
		eb.all = append(eb.all, subscriber)
	} else {
		eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
	}
	return subscriber
}

// Unsubscribe removes and closes a channel returned by Subscribe
func (eb *EventBus) Unsubscribe(ch <-chan model.Event) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if subs, ok := removeSubscriber(eb.all, ch); ok {
		eb.all = subs
		return
	}
	for eventType, subs := range eb.subscribers {
		if rest, ok := removeSubscriber(subs, ch); ok {
			eb.subscribers[eventType] = rest
			return
		}
	}
}

func removeSubscriber(subs []chan model.Event, ch <-chan model.Event) ([]chan model.Event, bool) {
	for i, s := range subs {
		if (<-chan model.Event)(s) == ch {
			close(s)
			return append(subs[:i], subs[i+1:]...), true
		}
	}
	return subs, false
}

func (eb *EventBus) distributeEvent(event model.Event) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	deliver := func(subscriber chan model.Event) {
		select {
		case subscriber <- event:
		default:
			// slow subscriber
		}
	}
	for _, subscriber := range eb.subscribers[event.EventType] {
		deliver(subscriber)
	}
	for _, subscriber := range eb.all {
		deliver(subscriber)
	}
}
