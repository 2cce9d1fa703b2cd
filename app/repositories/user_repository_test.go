package repositories

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/app/models"
)

func TestBadgerUserRepository(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	repo := store.Users()

	user := createUser(t, store, "alice")
	assert.Equal(t, "1", user.ID)

	t.Run("duplicate name", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Name: "alice", Password: "h", Gender: "f", Bio: "b"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("get by id and name", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)

		got, err = repo.GetByName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.GetByName(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByID(ctx, "77")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreBackupAndLoad(t *testing.T) {
	ctx := context.Background()
	src := setupTestStore(t)
	createUser(t, src, "alice")

	var buf bytes.Buffer
	require.NoError(t, src.Backup(&buf))

	dst := setupTestStore(t)
	require.NoError(t, dst.Load(&buf))

	got, err := dst.Users().GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	require.NoError(t, dst.Clear())
	_, err = dst.Users().GetByName(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}
