package prefs

import (
	"bytes"
	"context"
	"io"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
	"github.com/mpapenbr/trackroll/pkg/prefs"
	"github.com/mpapenbr/trackroll/pkg/storage/memory"
)

func TestShow(t *testing.T) {
	ctx := context.Background()
	s := prefs.NewStore(memory.New(), prefs.WithLogger(log.New(io.Discard, log.DebugLevel)))

	buf := &bytes.Buffer{}
	assert.NilError(t, show(ctx, buf, s))
	assert.Check(t, is.Contains(buf.String(), "no preferences stored"))
	assert.Check(t, is.Contains(buf.String(), "visited: false"))

	assert.NilError(t, s.Save(ctx, &model.Preferences{Theme: "hina", Unlocked: []string{"hina"}}))
	assert.NilError(t, s.MarkVisited(ctx))
	buf.Reset()
	assert.NilError(t, show(ctx, buf, s))
	assert.Check(t, is.Contains(buf.String(), `"theme": "hina"`))
	assert.Check(t, is.Contains(buf.String(), "visited: true"))
	assert.Check(t, is.Contains(buf.String(), "muted:   false"))
}
