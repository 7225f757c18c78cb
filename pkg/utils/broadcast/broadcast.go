package broadcast

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/trackroll/log"
)

//nolint:lll // url
// see https://betterprogramming.pub/how-to-broadcast-messages-in-go-using-channels-b68f42bdf32e

type Server[T any] interface {
	// Subscribe returns a channel receiving every message published after the call.
	// The channel is closed when the subscription is cancelled or the server closes.
	Subscribe() <-chan T
	CancelSubscription(<-chan T)
	// Done is closed once the server stopped, either by Close or because
	// the source was closed and drained.
	Done() <-chan struct{}
	// Close stops the server and waits until all listeners are closed.
	Close()
}

type server[T any] struct {
	name           string
	source         <-chan T
	listeners      []chan T
	addListener    chan chan T
	removeListener chan (<-chan T)
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	bufSize        int
	sendTimeout    time.Duration
	l              *log.Logger
	numRcv         atomic.Int64
	numSnd         atomic.Int64
	numSkip        atomic.Int64
	numListeners   atomic.Int64
}

type Option[T any] func(*server[T])

// WithBuffer sets the channel buffer of each subscription.
func WithBuffer[T any](size int) Option[T] {
	return func(s *server[T]) {
		s.bufSize = size
	}
}

// WithSendTimeout sets how long a message waits for a slow listener before it
// is skipped for that listener.
func WithSendTimeout[T any](d time.Duration) Option[T] {
	return func(s *server[T]) {
		s.sendTimeout = d
	}
}

func WithLogger[T any](l *log.Logger) Option[T] {
	return func(s *server[T]) {
		s.l = l
	}
}

//nolint:whitespace // false positive
func NewServer[T any](
	name string,
	source <-chan T,
	opts ...Option[T],
) Server[T] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &server[T]{
		name:           name,
		source:         source,
		addListener:    make(chan chan T),
		removeListener: make(chan (<-chan T)),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		bufSize:        16,
		sendTimeout:    50 * time.Millisecond,
		l:              log.Default().Named("broadcast"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMetrics()
	go s.serve()
	return s
}

func (s *server[T]) Subscribe() <-chan T {
	ch := make(chan T, s.bufSize)
	select {
	case s.addListener <- ch:
	case <-s.done:
		close(ch)
	}
	return ch
}

func (s *server[T]) CancelSubscription(ch <-chan T) {
	select {
	case s.removeListener <- ch:
	case <-s.done:
	}
}

func (s *server[T]) Done() <-chan struct{} {
	return s.done
}

func (s *server[T]) Close() {
	s.cancel()
	<-s.done
	s.l.Debug("broadcast server closed",
		log.String("name", s.name),
		log.Int64("rcv", s.numRcv.Load()),
		log.Int64("snd", s.numSnd.Load()),
		log.Int64("skip", s.numSkip.Load()))
}

func (s *server[T]) setupMetrics() {
	meter := otel.GetMeterProvider().Meter(fmt.Sprintf("trackroll.broadcast.%s", s.name))
	register := func(metricName, desc string, value *atomic.Int64) {
		if _, err := meter.Int64ObservableGauge(
			metricName,
			metric.WithDescription(desc),
			metric.WithUnit("{count}"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(value.Load(),
					metric.WithAttributes(attribute.String("name", s.name)))
				return nil
			})); err != nil {
			s.l.Error("failed to register metric",
				log.String("metric", metricName),
				log.ErrorField(err))
		}
	}
	register("trackroll.broadcast.rcv", "Number of received messages", &s.numRcv)
	register("trackroll.broadcast.snd", "Number of sent messages", &s.numSnd)
	register("trackroll.broadcast.skip", "Number of skipped messages", &s.numSkip)
	register("trackroll.broadcast.listener", "Number of listeners", &s.numListeners)
}

//nolint:cyclop // event loop
func (s *server[T]) serve() {
	defer func() {
		for _, listener := range s.listeners {
			close(listener)
		}
		s.listeners = nil
		close(s.done)
	}()
	for {
		select {
		case <-s.ctx.Done():
			return
		case ch := <-s.addListener:
			s.listeners = append(s.listeners, ch)
			s.numListeners.Store(int64(len(s.listeners)))
		case ch := <-s.removeListener:
			for i, listener := range s.listeners {
				if listener == ch {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					close(listener)
					break
				}
			}
			s.numListeners.Store(int64(len(s.listeners)))
		case msg, ok := <-s.source:
			if !ok {
				s.l.Debug("source closed", log.String("name", s.name))
				return
			}
			s.numRcv.Add(1)
			for _, listener := range s.listeners {
				select {
				case listener <- msg:
					s.numSnd.Add(1)
				case <-time.After(s.sendTimeout):
					s.numSkip.Add(1)
				}
			}
		}
	}
}
