package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"myblog/app/models"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	store *Store
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = uitoa(id)
		post.BeforeCreate()

		if err := setEntity(txn, entityKey(PostKeyPrefix, id), post); err != nil {
			return err
		}
		return txn.Set(indexKey(PostAuthorIndexPrefix, post.AuthorID, id), []byte{})
	})
}

// GetByID retrieves a post by ID with its author profile joined
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var post *models.Post
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		post, err = loadPost(txn, n, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetRawByID retrieves a post by ID without joining the author profile
func (r *BadgerPostRepository) GetRawByID(ctx context.Context, id string) (*models.Post, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var post *models.Post
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		post, err = loadPost(txn, n, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves posts most recent first, optionally restricted to one author
func (r *BadgerPostRepository) List(ctx context.Context, opts ListOptions) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(PostKeyPrefix)
		if opts.AuthorID != "" {
			prefix = []byte(PostAuthorIndexPrefix + opts.AuthorID + ":")
		}
		ids, err := collectIDs(txn, prefix, true)
		if err != nil {
			return err
		}

		// Skip offset items
		if opts.Offset > 0 {
			if opts.Offset >= len(ids) {
				return nil
			}
			ids = ids[opts.Offset:]
		}
		if opts.Limit > 0 && len(ids) > opts.Limit {
			ids = ids[:opts.Limit]
		}

		for _, id := range ids {
			post, err := loadPost(txn, id, true)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the title and content of an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, id, title, content string) error {
	n, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, n)
		var post models.Post
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		post.Title = title
		post.Content = content
		post.UpdatedAt = time.Now()
		return setEntity(txn, key, &post)
	})
}

// IncPV increments the view counter of a post by one
func (r *BadgerPostRepository) IncPV(ctx context.Context, id string) error {
	n, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, n)
		var post models.Post
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		post.PV++
		return setEntity(txn, key, &post)
	})
}

// Delete deletes a post by ID. Deleting a missing post is not an error.
func (r *BadgerPostRepository) Delete(ctx context.Context, id string) error {
	n, ok := parseID(id)
	if !ok {
		return nil
	}
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, n)
		var post models.Post
		err := getEntity(txn, key, &post)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(indexKey(PostAuthorIndexPrefix, post.AuthorID, n)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func loadPost(txn *badger.Txn, n uint64, join bool) (*models.Post, error) {
	var post models.Post
	if err := getEntity(txn, entityKey(PostKeyPrefix, n), &post); err != nil {
		return nil, err
	}
	if !join {
		return post.WithRawAuthor(), nil
	}
	author, err := authorProfile(txn, post.AuthorID)
	if err != nil {
		return nil, err
	}
	post.Author = author
	post.CommentsCount = countPrefix(txn, []byte(CommentPostIndexPrefix+post.ID+":"))
	return &post, nil
}
