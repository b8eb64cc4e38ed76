// Package pubsub provides context-scoped broadcast topics and observable
// properties. Handlers run through a Scheduler, which GUI hosts point at their
// main loop.
package pubsub

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type EventHandler[T any] func(T)

// Scheduler runs fn at some point, typically on the GUI thread.
type Scheduler func(fn func())

// Immediate runs handlers on the publishing goroutine.
func Immediate(fn func()) { fn() }

type Topic[T any] interface {
	Pub(value T)
	Sub(ctx context.Context, fn EventHandler[T])
}

func NewTopic[T any](schedule Scheduler) Topic[T] {
	return newTopic[T](schedule)
}

func newTopic[T any](schedule Scheduler) *topic[T] {
	if schedule == nil {
		schedule = Immediate
	}
	return &topic[T]{schedule: schedule}
}

type topic[T any] struct {
	mutex    sync.RWMutex
	subs     map[string]EventHandler[T]
	schedule Scheduler
	// serializes handler calls when the scheduler runs them concurrently
	calls sync.Mutex
}

func (t *topic[T]) Sub(ctx context.Context, fn EventHandler[T]) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	uid := uuid.NewString()
	if t.subs == nil {
		t.subs = map[string]EventHandler[T]{}
	}
	t.subs[uid] = fn
	go func() {
		<-ctx.Done()
		t.mutex.Lock()
		defer t.mutex.Unlock()
		delete(t.subs, uid)
	}()
}

func (t *topic[T]) Pub(value T) {
	t.mutex.RLock()
	handlers := make([]EventHandler[T], 0, len(t.subs))
	for _, ev := range t.subs {
		handlers = append(handlers, ev)
	}
	t.mutex.RUnlock()

	for _, ev := range handlers {
		t.schedule(func() {
			t.calls.Lock()
			defer t.calls.Unlock()
			ev(value)
		})
	}
}

type Property[T any] interface {
	Pub(value T)
	Sub(ctx context.Context, fn EventHandler[T])
	Value() T
}

func NewProperty[T any](value T, schedule Scheduler) Property[T] {
	return &property[T]{
		topic: newTopic[T](schedule),
		value: value,
	}
}

type property[T any] struct {
	*topic[T]
	valueMutex sync.RWMutex
	value      T
}

// Sub calls fn with the current value before any later update.
func (p *property[T]) Sub(ctx context.Context, fn EventHandler[T]) {
	p.topic.Sub(ctx, fn)
	fn(p.Value())
}

func (p *property[T]) Pub(value T) {
	p.valueMutex.Lock()
	p.value = value
	p.valueMutex.Unlock()
	p.topic.Pub(value)
}

func (p *property[T]) Value() T {
	p.valueMutex.RLock()
	defer p.valueMutex.RUnlock()
	return p.value
}
