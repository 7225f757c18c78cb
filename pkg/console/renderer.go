// Package console renders intents to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/effects"
	"github.com/mpapenbr/trackroll/pkg/model"
)

type (
	Option   func(*Renderer)
	Renderer struct {
		w      io.Writer
		sounds bool
		ticks  bool
		l      *log.Logger
	}
)

// WithSounds prints a marker for every sound request.
func WithSounds(enabled bool) Option {
	return func(r *Renderer) {
		r.sounds = enabled
	}
}

// WithTicks controls whether intermediate ticks are printed.
func WithTicks(enabled bool) Option {
	return func(r *Renderer) {
		r.ticks = enabled
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.l = l
	}
}

func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, ticks: true, l: log.Default().Named("console")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run renders intents from ch until ch is closed or ctx is done.
func (r *Renderer) Run(ctx context.Context, ch <-chan effects.Intent) {
	for {
		select {
		case <-ctx.Done():
			return
		case i, ok := <-ch:
			if !ok {
				return
			}
			r.Render(i)
		}
	}
}

//nolint:cyclop // one case per kind
func (r *Renderer) Render(i effects.Intent) {
	switch i.Kind {
	case effects.KindShowTick:
		if r.ticks && i.Track != nil {
			r.printf("   %s\n", i.Track.Name)
		}
	case effects.KindShowResult:
		if i.Outcome != nil {
			r.result(i.Outcome)
		}
	case effects.KindShowNoMatches:
		r.printf("NO MATCHES\n")
	case effects.KindShowConfetti:
		r.printf("%s\n", strings.Repeat("* ", 20))
	case effects.KindShowJumpscare:
		r.printf("\n%s\n", jumpscare)
		if !i.Muted {
			r.sound("oisu")
		}
	case effects.KindUnlockNotification:
		r.printf("Unlocked Secret Theme: %s!\n", i.Name)
	case effects.KindThemeChanged:
		r.printf("theme: %s\n", i.ID)
	case effects.KindPlayTick:
		r.sound("tick")
	case effects.KindPlayFanfare:
		r.sound("fanfare")
	case effects.KindPlaySpecial:
		r.sound(i.ID)
	default:
		r.l.Debug("unhandled intent", log.String("kind", string(i.Kind)))
	}
}

func (r *Renderer) result(o *model.RollOutcome) {
	t := o.Track
	r.printf("\n>> %s\n", t.Name)
	r.printf("   [%s] [%s] [%s] [%s] [Max: %d]\n",
		t.Surface, t.Distance, t.Category, t.FullDirection, t.MaxRunners)
	r.printf("   %s with %s\n", o.Season, o.Weather)
	if t.Img != "" {
		r.printf("   %s\n", t.Img)
	}
}

func (r *Renderer) sound(id string) {
	if r.sounds {
		r.printf("   ~%s~\n", id)
	}
}

func (r *Renderer) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.l.Warn("could not write to terminal", log.ErrorField(err))
	}
}

const jumpscare = `
   ____  _____ _____ _    _   _
  / __ \|_   _/ ____| |  | | | |
 | |  | | | || (___ | |  | | | |
 | |  | | | | \___ \| |  | | |_|
 | |__| |_| |_____) | |__| |  _
  \____/|_____|____/ \____/  |_|
`
