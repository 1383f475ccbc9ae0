package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunArtifactStoreContract runs a suite of tests to verify that an ArtifactStore implementation
// adheres to the defined interface contract.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		art := &domain.Artifact{
			Key:       key,
			Filename:  "tree.stl",
			Data:      []byte("solid tree\nendsolid tree\n"),
			Triangles: 12,
			Warnings:  []string{"fillet skipped"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := store.Save(ctx, art)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, art.Filename, loaded.Filename)
		assert.Equal(t, art.Data, loaded.Data)
		assert.Equal(t, art.Triangles, loaded.Triangles)
		assert.Equal(t, art.Warnings, loaded.Warnings)
		assert.True(t, art.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Artifact{Key: key, Filename: "v2.stl", Data: []byte{1, 2, 3}}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v2.stl", loaded.Filename)
		assert.Equal(t, []byte{1, 2, 3}, loaded.Data)
	})

	t.Run("List", func(t *testing.T) {
		other := key + "-b"
		require.NoError(t, store.Save(ctx, &domain.Artifact{Key: other, Data: []byte{0}}))

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, key)
		assert.Contains(t, keys, other)

		require.NoError(t, store.Delete(ctx, other))
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "Load after Delete should return ErrArtifactNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice should be a no-op")
	})

	t.Run("Empty Key", func(t *testing.T) {
		err := store.Save(ctx, &domain.Artifact{Key: ""})
		assert.Error(t, err)
	})
}
