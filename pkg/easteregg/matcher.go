package easteregg

import (
	"strings"
	"sync"
)

const DefaultBufferSize = 20

type ActionKind int

const (
	ActionUnlockTheme ActionKind = iota
	ActionSpecialSound
	ActionJumpscare
)

type Action struct {
	Kind ActionKind
	ID   string // theme or sound id
}

// Trigger maps an input sequence to actions. If Clear is set the input
// buffer is emptied after the trigger matched.
type Trigger struct {
	Sequence string
	Actions  []Action
	Clear    bool
}

// DefaultTriggers is the built-in trigger table, checked in this order.
var DefaultTriggers = []Trigger{
	{
		Sequence: "NATURE",
		Actions:  []Action{{Kind: ActionUnlockTheme, ID: "nature"}},
	},
	{
		Sequence: "NEURO",
		Actions:  []Action{{Kind: ActionSpecialSound, ID: "heart"}},
		Clear:    true,
	},
	{
		Sequence: "RACC",
		Actions: []Action{
			{Kind: ActionUnlockTheme, ID: "hina"},
			{Kind: ActionSpecialSound, ID: "hina"},
		},
		Clear: true,
	},
	{
		Sequence: "NEICHA",
		Actions:  []Action{{Kind: ActionJumpscare}},
		Clear:    true,
	},
}

// Matcher keeps a bounded trailing buffer of input symbols and reports the
// actions of every trigger the buffer ends with.
type Matcher struct {
	mu       sync.Mutex
	triggers []Trigger
	size     int
	buf      []rune
}

func NewMatcher(triggers []Trigger, size int) *Matcher {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Matcher{triggers: triggers, size: size}
}

func Default() *Matcher {
	return NewMatcher(DefaultTriggers, DefaultBufferSize)
}

// Feed appends key (upper-cased) to the buffer and returns the resulting actions.
func (m *Matcher) Feed(key string) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf = append(m.buf, []rune(strings.ToUpper(key))...)
	if len(m.buf) > m.size {
		m.buf = append(m.buf[:0], m.buf[len(m.buf)-m.size:]...)
	}
	var ret []Action
	for _, t := range m.triggers {
		if !strings.HasSuffix(string(m.buf), t.Sequence) {
			continue
		}
		ret = append(ret, t.Actions...)
		if t.Clear {
			m.buf = m.buf[:0]
		}
	}
	return ret
}

// buffer returns the current buffer content.
func (m *Matcher) buffer() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.buf)
}
