package effects

import (
	"context"
	"sync"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/metrics"
	"github.com/mpapenbr/trackroll/pkg/utils/broadcast"
)

// Bus fans out emitted intents to all subscribers. Emit never blocks: when
// the internal queue is full the intent is dropped.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	queue  chan Intent
	server broadcast.Server[Intent]
	l      *log.Logger
}

func NewBus(queueSize int) *Bus {
	q := make(chan Intent, queueSize)
	return &Bus{
		queue:  q,
		server: broadcast.NewServer("intents", q, broadcast.WithBuffer[Intent](64)),
		l:      log.Default().Named("effects"),
	}
}

func (b *Bus) Emit(i Intent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.queue <- i:
	default:
		b.l.Debug("intent dropped", log.String("kind", string(i.Kind)))
		metrics.IntentDropped(context.Background(), string(i.Kind))
	}
}

func (b *Bus) Subscribe() <-chan Intent {
	return b.server.Subscribe()
}

func (b *Bus) Unsubscribe(ch <-chan Intent) {
	b.server.CancelSubscription(ch)
}

// Close delivers the queued intents and closes the subscriber channels.
// Intents emitted afterwards are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()
	<-b.server.Done()
	b.server.Close()
}
