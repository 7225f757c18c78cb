package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
)

func TestWatch_reloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tracks.json")
	require.NoError(t, os.WriteFile(file, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan []model.Track, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, func(tracks []model.Track) { got <- tracks })
	}()

	// give the watcher a moment to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file,
		[]byte(`[{"id":"Tokyo Turf 1600m (G1) Left Max Runners: 18"}]`), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case tracks := <-got:
			if len(tracks) == 1 {
				assert.Equal(t, "Tokyo Turf 1600m", tracks[0].Name)
				cancel()
				assert.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("no reload within deadline")
		}
	}
}

func TestWatch_logsToContextLogger(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tracks.json")
	require.NoError(t, os.WriteFile(file, []byte(`[]`), 0o600))

	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(
		log.AddToContext(context.Background(), log.New(&buf, log.DebugLevel).Named("play")))
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, func([]model.Track) {})
	}()
	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, buf.String(), "watching dataset")
	assert.Contains(t, buf.String(), `"logger":"play.catalog.watch"`)
}
