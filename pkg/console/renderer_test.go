package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/effects"
	"github.com/mpapenbr/trackroll/pkg/model"
)

var tokyo = &model.Track{
	Name: "Tokyo Turf 1600m", Surface: "Turf", Distance: "1600m", Category: "G1",
	Direction: model.DirectionLeft, FullDirection: "Left/Outer", MaxRunners: 18,
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		intent effects.Intent
		want   []string
		absent []string
	}{
		{
			name:   "tick",
			intent: effects.Intent{Kind: effects.KindShowTick, Track: tokyo},
			want:   []string{"Tokyo Turf 1600m"},
		},
		{
			name:   "tick hidden",
			opts:   []Option{WithTicks(false)},
			intent: effects.Intent{Kind: effects.KindShowTick, Track: tokyo},
			absent: []string{"Tokyo"},
		},
		{
			name: "result",
			intent: effects.Intent{Kind: effects.KindShowResult, Outcome: &model.RollOutcome{
				Track: tokyo, Season: model.SeasonWinter, Weather: model.WeatherSnowySoft,
			}},
			want: []string{">> Tokyo Turf 1600m", "[Left/Outer]", "[Max: 18]", "Winter with Snowy/Soft"},
		},
		{
			name:   "no matches",
			intent: effects.Intent{Kind: effects.KindShowNoMatches},
			want:   []string{"NO MATCHES"},
		},
		{
			name:   "unlock",
			intent: effects.Intent{Kind: effects.KindUnlockNotification, Name: "Hina (Purple)"},
			want:   []string{"Unlocked Secret Theme: Hina (Purple)!"},
		},
		{
			name:   "sound marker",
			opts:   []Option{WithSounds(true)},
			intent: effects.Intent{Kind: effects.KindPlaySpecial, ID: "heart"},
			want:   []string{"~heart~"},
		},
		{
			name:   "sound silent",
			intent: effects.Intent{Kind: effects.KindPlayFanfare},
			absent: []string{"fanfare"},
		},
		{
			name:   "muted jumpscare",
			opts:   []Option{WithSounds(true)},
			intent: effects.Intent{Kind: effects.KindShowJumpscare, Muted: true},
			want:   []string{"____"},
			absent: []string{"~oisu~"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := append([]Option{WithLogger(log.New(io.Discard, log.DebugLevel))}, tt.opts...)
			New(buf, opts...).Render(tt.intent)
			for _, w := range tt.want {
				assert.Check(t, is.Contains(buf.String(), w))
			}
			for _, a := range tt.absent {
				assert.Check(t, !bytes.Contains(buf.Bytes(), []byte(a)), "unexpected %q", a)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_writeErrorsAreIgnored(t *testing.T) {
	r := New(failingWriter{}, WithLogger(log.New(io.Discard, log.DebugLevel)))
	r.Render(effects.Intent{Kind: effects.KindShowNoMatches})
}

func TestRun_untilChannelClosed(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan effects.Intent, 2)
	ch <- effects.Intent{Kind: effects.KindShowNoMatches}
	ch <- effects.Intent{Kind: effects.KindThemeChanged, ID: "nature"}
	close(ch)

	New(buf).Run(context.Background(), ch)
	assert.Check(t, is.Contains(buf.String(), "NO MATCHES"))
	assert.Check(t, is.Contains(buf.String(), "theme: nature"))
}
