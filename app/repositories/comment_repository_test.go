package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/app/models"
)

func TestBadgerCommentRepository(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	repo := store.Comments()
	alice := createUser(t, store, "alice")

	post := &models.Post{AuthorID: alice.ID, Title: "T", Content: "C"}
	require.NoError(t, store.Posts().Create(ctx, post))
	other := &models.Post{AuthorID: alice.ID, Title: "O", Content: "C"}
	require.NoError(t, store.Posts().Create(ctx, other))

	t.Run("create comment", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "first"}
		require.NoError(t, repo.Create(ctx, comment))
		assert.Equal(t, "1", comment.ID)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("create comment on missing post", func(t *testing.T) {
		err := repo.Create(ctx, &models.Comment{PostID: "999", AuthorID: alice.ID, Content: "c"})
		assert.ErrorIs(t, err, ErrNotFound)

		count, err := repo.CountByPost(ctx, "999")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("create comment after its post is deleted", func(t *testing.T) {
		gone := &models.Post{AuthorID: alice.ID, Title: "G", Content: "C"}
		require.NoError(t, store.Posts().Create(ctx, gone))
		require.NoError(t, store.Posts().Delete(ctx, gone.ID))

		err := repo.Create(ctx, &models.Comment{PostID: gone.ID, AuthorID: alice.ID, Content: "late"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create comment on malformed post id", func(t *testing.T) {
		err := repo.Create(ctx, &models.Comment{PostID: "x", AuthorID: alice.ID, Content: "c"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get comment", func(t *testing.T) {
		comment, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "first", comment.Content)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, alice.ID, comment.Author.ID)

		_, err = repo.GetByID(ctx, "999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list comments oldest first", func(t *testing.T) {
		for _, content := range []string{"second", "third"} {
			require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: content}))
		}
		require.NoError(t, repo.Create(ctx, &models.Comment{PostID: other.ID, AuthorID: alice.ID, Content: "elsewhere"}))

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "third", comments[2].Content)
		assert.Equal(t, "alice", comments[0].Author.Name)

		count, err := repo.CountByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("delete comment", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "1"))
		_, err := repo.GetByID(ctx, "1")
		assert.ErrorIs(t, err, ErrNotFound)

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 2)

		assert.NoError(t, repo.Delete(ctx, "1"))
	})

	t.Run("delete comments by post", func(t *testing.T) {
		require.NoError(t, repo.DeleteByPost(ctx, post.ID))

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		comments, err = repo.ListByPost(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})
}
