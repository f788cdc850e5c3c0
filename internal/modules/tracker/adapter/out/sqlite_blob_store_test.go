package out_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	trackerout "tempo/internal/modules/tracker/adapter/out"
)

func TestSQLiteBlobStoreLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := trackerout.NewSQLiteBlobStore(filepath.Join(t.TempDir(), "nested", "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, found, err := store.Load(ctx, "@activities")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Save(ctx, "@activities", []byte(`[1]`)))
	require.NoError(t, store.Save(ctx, "@activities", []byte(`[2]`)))
	require.NoError(t, store.Save(ctx, "@activity_records", []byte(`[]`)))

	blob, found, err := store.Load(ctx, "@activities")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[2]`, string(blob))

	require.NoError(t, store.RemoveMany(ctx, []string{"@activities", "@activity_records", "@unknown"}))
	_, found, err = store.Load(ctx, "@activity_records")
	require.NoError(t, err)
	require.False(t, found)
}
