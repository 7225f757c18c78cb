//nolint:funlen // ok for tests
package easteregg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(m *Matcher, text string) []Action {
	var ret []Action
	for _, r := range text {
		ret = append(ret, m.Feed(string(r))...)
	}
	return ret
}

func TestMatcher_Feed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       []Action
		wantBuffer string
	}{
		{
			name:       "nature keeps buffer",
			input:      "nature",
			want:       []Action{{Kind: ActionUnlockTheme, ID: "nature"}},
			wantBuffer: "NATURE",
		},
		{
			name:       "neuro clears buffer",
			input:      "xxneuro",
			want:       []Action{{Kind: ActionSpecialSound, ID: "heart"}},
			wantBuffer: "",
		},
		{
			name:  "racc unlocks and plays",
			input: "RaCc",
			want: []Action{
				{Kind: ActionUnlockTheme, ID: "hina"},
				{Kind: ActionSpecialSound, ID: "hina"},
			},
			wantBuffer: "",
		},
		{
			name:       "neicha triggers jumpscare",
			input:      "neicha",
			want:       []Action{{Kind: ActionJumpscare}},
			wantBuffer: "",
		},
		{
			name:       "no trigger",
			input:      "natur",
			want:       nil,
			wantBuffer: "NATUR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			got := feed(m, tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantBuffer, m.buffer())
		})
	}
}

func TestMatcher_bufferIsBounded(t *testing.T) {
	m := Default()
	feed(m, strings.Repeat("x", 50))
	assert.Len(t, m.buffer(), DefaultBufferSize)

	// a trigger still matches at the end of a full buffer
	got := feed(m, "nature")
	assert.Equal(t, []Action{{Kind: ActionUnlockTheme, ID: "nature"}}, got)
	assert.Len(t, m.buffer(), DefaultBufferSize)
}

func TestMatcher_namedKeys(t *testing.T) {
	m := Default()
	m.Feed("Shift")
	assert.Equal(t, "SHIFT", m.buffer())
	got := feed(m, "racc")
	assert.Len(t, got, 2)
}

func TestMatcher_customTable(t *testing.T) {
	m := NewMatcher([]Trigger{
		{Sequence: "AB", Actions: []Action{{Kind: ActionSpecialSound, ID: "ab"}}, Clear: true},
		{Sequence: "B", Actions: []Action{{Kind: ActionSpecialSound, ID: "b"}}},
	}, 3)
	// the buffer was cleared by the first trigger, so the second cannot match
	assert.Equal(t, []Action{{Kind: ActionSpecialSound, ID: "ab"}}, feed(m, "ab"))
	assert.Equal(t, []Action{{Kind: ActionSpecialSound, ID: "b"}}, feed(m, "b"))
	feed(m, "cdef")
	assert.Equal(t, "DEF", m.buffer())
}
