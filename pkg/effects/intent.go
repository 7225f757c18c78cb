package effects

import "github.com/mpapenbr/trackroll/pkg/model"

type Kind string

const (
	KindPlayTick           Kind = "play-tick"
	KindPlayFanfare        Kind = "play-fanfare"
	KindPlaySpecial        Kind = "play-special"
	KindShowConfetti       Kind = "show-confetti"
	KindShowJumpscare      Kind = "show-jumpscare"
	KindUnlockNotification Kind = "unlock-notification"
	KindShowTick           Kind = "show-tick"
	KindShowResult         Kind = "show-result"
	KindShowNoMatches      Kind = "show-no-matches"
	KindThemeChanged       Kind = "theme-changed"
)

// Intent is a request towards a presentation collaborator.
type Intent struct {
	Kind    Kind
	Track   *model.Track       // show-tick
	Outcome *model.RollOutcome // show-result
	ID      string             // play-special: sound id, theme-changed: theme id
	Name    string             // unlock-notification: display name
	Muted   bool               // show-jumpscare: play silently
}

// Sink receives intents. Emit must not block for long and never fails from
// the caller's point of view.
type Sink interface {
	Emit(Intent)
}

type SinkFunc func(Intent)

func (f SinkFunc) Emit(i Intent) { f(i) }

// Discard drops all intents.
var Discard Sink = SinkFunc(func(Intent) {})
