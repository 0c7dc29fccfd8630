package events

import (
	"sync"
	"sync/atomic"

	"github.com/kcaldas/promptline/pkg/logging"
)

const defaultTopicBuffer = 256

// EventHandler is a function that handles an event
type EventHandler func(event interface{})

// Event is a value that knows its own topic.
type Event interface {
	Topic() string
}

// Publisher allows publishing events
type Publisher interface {
	Publish(eventType string, event interface{})
}

// Subscriber allows subscribing to events
type Subscriber interface {
	Subscribe(eventType string, handler EventHandler)
}

// EventBus provides both publishing and subscribing
type EventBus interface {
	Publisher
	Subscriber
}

// PublishEvent publishes e on its own topic.
func PublishEvent(p Publisher, e Event) {
	p.Publish(e.Topic(), e)
}

// InMemoryBus delivers events asynchronously, in order per topic, on one
// worker goroutine per topic.
type InMemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string][]EventHandler
	workers     map[string]*topicWorker
	bufferSize  int
	dropped     atomic.Int64
	closed      bool
	logger      logging.Logger
}

// NewEventBus creates a new event bus with the default buffer size.
func NewEventBus() *InMemoryBus {
	return NewEventBusWithBuffer(defaultTopicBuffer)
}

// NewEventBusWithBuffer sets the per-topic queue size. A buffer of at
// least 1 is enforced.
func NewEventBusWithBuffer(buffer int) *InMemoryBus {
	if buffer < 1 {
		buffer = 1
	}
	return &InMemoryBus{
		subscribers: make(map[string][]EventHandler),
		workers:     make(map[string]*topicWorker),
		bufferSize:  buffer,
		logger:      logging.NewComponentLogger("events"),
	}
}

// SetLogger replaces the logger used for dropped events and handler panics.
func (b *InMemoryBus) SetLogger(logger logging.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

// Subscribe adds a handler for a specific event type.
func (b *InMemoryBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish queues event for every subscriber of eventType and returns
// without waiting. If the topic queue is full the event is dropped.
func (b *InMemoryBus) Publish(eventType string, event interface{}) {
	handlers := b.handlersFor(eventType)
	if len(handlers) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.dropped.Add(1)
		return
	}

	worker, ok := b.workers[eventType]
	if !ok {
		worker = newTopicWorker(b.bufferSize, b.logger)
		b.workers[eventType] = worker
	}

	select {
	case worker.ch <- eventEnvelope{event: event, handlers: handlers}:
	default:
		b.dropped.Add(1)
		b.logger.Warn("event queue full, dropping event", "topic", eventType)
	}
}

// DroppedCount returns the number of events dropped due to full queues or
// a closed bus.
func (b *InMemoryBus) DroppedCount() int64 {
	return b.dropped.Load()
}

// Shutdown delivers every queued event, then stops all workers. Events
// published afterwards are dropped.
func (b *InMemoryBus) Shutdown() {
	b.mu.Lock()
	b.closed = true
	workers := make([]*topicWorker, 0, len(b.workers))
	for _, w := range b.workers {
		workers = append(workers, w)
	}
	b.mu.Unlock()

	for _, w := range workers {
		w.stop()
	}
}

func (b *InMemoryBus) handlersFor(eventType string) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	handlers := make([]EventHandler, len(b.subscribers[eventType]))
	copy(handlers, b.subscribers[eventType])
	return handlers
}

type eventEnvelope struct {
	event    interface{}
	handlers []EventHandler
}

type topicWorker struct {
	ch       chan eventEnvelope
	wg       sync.WaitGroup
	stopOnce sync.Once
	logger   logging.Logger
}

func newTopicWorker(buffer int, logger logging.Logger) *topicWorker {
	w := &topicWorker{
		ch:     make(chan eventEnvelope, buffer),
		logger: logger,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *topicWorker) run() {
	defer w.wg.Done()
	for env := range w.ch {
		for _, handler := range env.handlers {
			w.deliver(handler, env.event)
		}
	}
}

func (w *topicWorker) deliver(h EventHandler, e interface{}) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("event handler panicked", "panic", r)
		}
	}()
	h(e)
}

func (w *topicWorker) stop() {
	w.stopOnce.Do(func() {
		close(w.ch)
		w.wg.Wait()
	})
}
