package events

import (
	"context"
	"sync"
)

const defaultBuffer = 64

// Broker distribuye eventos en memoria a suscriptores con predicado.
// El envío no bloquea: un suscriptor lento pierde eventos.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	buffer int
}

type subscription struct {
	ch   chan Event
	pred Predicate
}

// NewBroker construye el broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]*subscription), buffer: defaultBuffer}
}

// Publish entrega el evento a cada suscriptor cuyo predicado lo acepte.
func (b *Broker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if s.pred != nil && !s.pred(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe registra un suscriptor. El canal se cierra al cancelar ctx o llamar a cancel.
func (b *Broker) Subscribe(ctx context.Context, pred Predicate) (<-chan Event, func()) {
	s := &subscription{ch: make(chan Event, b.buffer), pred: pred}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(s.ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return s.ch, cancel
}

// Subscribers número de suscriptores activos.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
