package repositories

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"myblog/app/models"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	store *Store
}

// Create creates a new comment. The parent post must exist when the write commits.
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	postN, ok := parseID(comment.PostID)
	if !ok {
		return ErrNotFound
	}
	return r.store.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(entityKey(PostKeyPrefix, postN)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = uitoa(id)
		comment.PostID = uitoa(postN)
		comment.BeforeCreate()

		if err := setEntity(txn, entityKey(CommentKeyPrefix, id), comment); err != nil {
			return err
		}
		// Index by post so listing a post's comments is a prefix scan
		return txn.Set(indexKey(CommentPostIndexPrefix, comment.PostID, id), []byte{})
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var comment models.Comment
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CommentKeyPrefix, n), &comment)
	})
	if err != nil {
		return nil, err
	}
	comment.Author = &models.Author{ID: comment.AuthorID}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	postN, ok := parseID(postID)
	if !ok {
		return comments, nil
	}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		ids, err := collectIDs(txn, []byte(CommentPostIndexPrefix+uitoa(postN)+":"), false)
		if err != nil {
			return err
		}
		for _, id := range ids {
			var comment models.Comment
			err := getEntity(txn, entityKey(CommentKeyPrefix, id), &comment)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if comment.Author, err = authorProfile(txn, comment.AuthorID); err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost returns the number of comments on a post
func (r *BadgerCommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	postN, ok := parseID(postID)
	if !ok {
		return 0, nil
	}
	var count int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		count = countPrefix(txn, []byte(CommentPostIndexPrefix+uitoa(postN)+":"))
		return nil
	})
	return count, err
}

// Delete deletes a comment by ID. Deleting a missing comment is not an error.
func (r *BadgerCommentRepository) Delete(ctx context.Context, id string) error {
	n, ok := parseID(id)
	if !ok {
		return nil
	}
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, n)
		var comment models.Comment
		err := getEntity(txn, key, &comment)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(indexKey(CommentPostIndexPrefix, comment.PostID, n)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// DeleteByPost deletes every comment attached to a post
func (r *BadgerCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	postN, ok := parseID(postID)
	if !ok {
		return nil
	}
	owner := uitoa(postN)
	return r.store.update(ctx, func(txn *badger.Txn) error {
		ids, err := collectIDs(txn, []byte(CommentPostIndexPrefix+owner+":"), false)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := txn.Delete(entityKey(CommentKeyPrefix, id)); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(CommentPostIndexPrefix, owner, id)); err != nil {
				return err
			}
		}
		return nil
	})
}
