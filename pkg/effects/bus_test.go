package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_deliversInOrder(t *testing.T) {
	b := NewBus(16)
	defer b.Close()
	ch := b.Subscribe()

	b.Emit(Intent{Kind: KindPlayTick})
	b.Emit(Intent{Kind: KindShowConfetti})
	for _, want := range []Kind{KindPlayTick, KindShowConfetti} {
		select {
		case got := <-ch:
			assert.Equal(t, want, got.Kind)
		case <-time.After(2 * time.Second):
			t.Fatalf("no intent %s", want)
		}
	}
}

func TestBus_emitNeverBlocks(t *testing.T) {
	b := NewBus(1)
	defer b.Close()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Emit(Intent{Kind: KindPlayTick})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Emit blocked")
	}
}

func TestBus_closed(t *testing.T) {
	b := NewBus(4)
	ch := b.Subscribe()
	b.Close()
	b.Close()
	b.Emit(Intent{Kind: KindPlayTick})
	_, ok := <-ch
	require.False(t, ok)
}

func TestBus_closeDeliversQueued(t *testing.T) {
	b := NewBus(8)
	ch := b.Subscribe()
	b.Emit(Intent{Kind: KindShowResult})
	b.Emit(Intent{Kind: KindShowConfetti})
	b.Close()

	var got []Kind
	for i := range ch {
		got = append(got, i.Kind)
	}
	assert.Equal(t, []Kind{KindShowResult, KindShowConfetti}, got)
}

func TestSinkFunc(t *testing.T) {
	var got []Kind
	s := SinkFunc(func(i Intent) { got = append(got, i.Kind) })
	s.Emit(Intent{Kind: KindPlayFanfare})
	Discard.Emit(Intent{Kind: KindPlayFanfare})
	assert.Equal(t, []Kind{KindPlayFanfare}, got)
}
