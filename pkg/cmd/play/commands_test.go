package play

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/app"
	"github.com/mpapenbr/trackroll/pkg/catalog"
	"github.com/mpapenbr/trackroll/pkg/model"
	"github.com/mpapenbr/trackroll/pkg/outcome"
	"github.com/mpapenbr/trackroll/testsupport/fakeclock"
)

func newTestApp(t *testing.T) (*app.App, *fakeclock.Clock) {
	t.Helper()
	tracks := catalog.Normalize([]model.RawEntry{
		{ID: "Tokyo Turf 1600m (G1) Left/Outer Max Runners: 18"},
		{ID: "Nakayama Dirt 1800m (G2) Right/Inner"},
	})
	clk := fakeclock.New()
	a := app.New(tracks, nil,
		app.WithClock(clk),
		app.WithRandom(outcome.NewRNG(7)),
		app.WithDefaultFilters(app.AllFilters(tracks)),
		app.WithLogger(log.New(io.Discard, log.DebugLevel)))
	t.Cleanup(a.Close)
	return a, clk
}

func run(t *testing.T, a App, line string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	fields := strings.Fields(line)
	err := execute(context.Background(), a, buf, fields[0], fields[1:])
	return buf.String(), err
}

func TestExecute(t *testing.T) {
	a, clk := newTestApp(t)

	out, err := run(t, a, "copy")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing rolled yet")

	out, err = run(t, a, "roll")
	require.NoError(t, err)
	assert.Equal(t, "GATE IN...\n", out)
	out, err = run(t, a, "roll")
	require.NoError(t, err)
	assert.Contains(t, out, "roll in progress")

	clk.RunAll()
	out, err = run(t, a, "copy")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "TRACK: "), out)

	out, err = run(t, a, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "status:  done")
	assert.Contains(t, out, "catalog: 2 tracks")
}

func TestExecute_filter(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "filter direction Left")
	require.NoError(t, err)
	assert.Equal(t, []string{"Left"}, a.Snapshot().Filters[app.AxisDirection])

	out, err := run(t, a, "filter")
	require.NoError(t, err)
	assert.Contains(t, out, "dir      Left\n")

	_, err = run(t, a, "filter weather Sunny")
	assert.ErrorIs(t, err, app.ErrUnknownAxis)

	_, err = run(t, a, "filter terrain")
	require.NoError(t, err)
	st, err := a.Roll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, app.StatusNoMatches, st)
}

func TestExecute_themes(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "theme nature")
	require.NoError(t, err)
	assert.Contains(t, out, `theme "nature" is not available`)

	_, err = run(t, a, "keys na tu re")
	require.NoError(t, err)
	out, err = run(t, a, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* nature")
	assert.Contains(t, out, "Nice Nature (Bronze)")

	_, err = run(t, a, "theme")
	assert.Error(t, err)
}

func TestExecute_mute(t *testing.T) {
	a, _ := newTestApp(t)
	out, err := run(t, a, "mute")
	require.NoError(t, err)
	assert.Equal(t, "sound off\n", out)
	out, err = run(t, a, "MUTE")
	require.NoError(t, err)
	assert.Equal(t, "sound on\n", out)
}

func TestExecute_unknown(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := run(t, a, "dance")
	assert.ErrorIs(t, err, errUnknownCommand)

	out, err := run(t, a, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "filter [<axis> <values..>]")
	assert.Contains(t, out, "quit")
}

func TestRepl_stopsAtQuit(t *testing.T) {
	a, _ := newTestApp(t)
	out := &bytes.Buffer{}
	in := strings.NewReader("help\n\ndance\nquit\nroll\n")

	repl(context.Background(), a, in, out)
	assert.Contains(t, out.String(), "error: unknown command: dance")
	assert.Equal(t, app.StatusIdle, a.Snapshot().Status)
}
