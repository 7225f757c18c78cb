package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/trackroll/pkg/storage"
)

func TestOverlay_leavesBaseUntouched(t *testing.T) {
	ctx := context.Background()
	base := New()
	require.NoError(t, base.Set(ctx, "kept", "base"))
	require.NoError(t, base.Set(ctx, "changed", "base"))
	require.NoError(t, base.Set(ctx, "removed", "base"))

	o := NewOverlay(base)
	require.NoError(t, o.Set(ctx, "changed", "overlay"))
	require.NoError(t, o.Set(ctx, "new", "overlay"))
	require.NoError(t, o.Delete(ctx, "removed"))

	tests := []struct {
		key     string
		want    string
		wantErr error
	}{
		{key: "kept", want: "base"},
		{key: "changed", want: "overlay"},
		{key: "new", want: "overlay"},
		{key: "removed", wantErr: storage.ErrNotFound},
		{key: "missing", wantErr: storage.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := o.Get(ctx, tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, map[string]string{
		"kept":    "base",
		"changed": "base",
		"removed": "base",
	}, base.Snapshot())
}
