package util

import (
	"context"
	"io"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/app"
	"github.com/mpapenbr/trackroll/pkg/config"
	"github.com/mpapenbr/trackroll/pkg/console"
	"github.com/mpapenbr/trackroll/pkg/effects"
	"github.com/mpapenbr/trackroll/pkg/prefs"
	"github.com/mpapenbr/trackroll/pkg/storage"
	"github.com/mpapenbr/trackroll/pkg/storage/memory"
)

// Session wires catalog, preference store, app and terminal renderer.
type Session struct {
	App       *app.App
	Bus       *effects.Bus
	kv        storage.Store
	telemetry *config.Telemetry
	rendered  chan struct{}
}

// NewSession sets up everything a command needs to roll. Unless persist is
// set preference changes are kept in memory.
//
//nolint:whitespace // can't make both editor and linter happy
func NewSession(
	ctx context.Context,
	out io.Writer,
	persist bool,
	opts ...console.Option,
) (*Session, error) {
	telemetry := SetupTelemetry(ctx)
	tracks, err := LoadCatalog()
	if err != nil {
		shutdown(telemetry)
		return nil, err
	}
	kv, err := OpenStore(ctx)
	if err != nil {
		shutdown(telemetry)
		return nil, err
	}
	if !persist {
		kv = memory.NewOverlay(kv)
	}

	bus := effects.NewBus(256)
	ch := bus.Subscribe()
	renderer := console.New(out, opts...)
	rendered := make(chan struct{})
	go func() {
		renderer.Run(context.Background(), ch)
		close(rendered)
	}()

	store := prefs.NewStore(kv, prefs.WithLogger(log.Default().Named("prefs")))
	a := app.New(tracks, store, append(AppOptions(tracks), app.WithSink(bus))...)
	return &Session{
		App:       a,
		Bus:       bus,
		kv:        kv,
		telemetry: telemetry,
		rendered:  rendered,
	}, nil
}

// Close stops the app, waits until all intents are rendered and releases the
// store.
func (s *Session) Close() {
	s.App.Close()
	s.Bus.Close()
	<-s.rendered
	if err := s.kv.Close(); err != nil {
		log.Warn("could not close store", log.ErrorField(err))
	}
	shutdown(s.telemetry)
}

func shutdown(t *config.Telemetry) {
	if t != nil {
		t.Shutdown()
	}
}
