package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"myblog/app/models"
	"myblog/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	log         *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, log *zap.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		log:         log,
	}
}

// ListPosts returns one page of posts, most recent first. A perPage below one
// returns every post. hasMore reports whether a further page exists.
func (s *PostService) ListPosts(ctx context.Context, authorID string, page, perPage int) (posts []*models.Post, hasMore bool, err error) {
	if page < 1 {
		page = 1
	}
	opts := repositories.ListOptions{AuthorID: authorID}
	if perPage > 0 {
		opts.Offset = (page - 1) * perPage
		opts.Limit = perPage + 1
	}

	posts, err = s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list posts: %w", err)
	}
	if perPage > 0 && len(posts) > perPage {
		posts, hasMore = posts[:perPage], true
	}
	return posts, hasMore, nil
}

// ViewPost fetches a post and its comments and counts the view, all at once.
// A failed view count is logged and never fails the read.
func (s *PostService) ViewPost(ctx context.Context, id string) (*models.Post, []*models.Comment, error) {
	var (
		post     *models.Post
		comments []*models.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = s.postRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.ListByPost(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.postRepo.IncPV(gctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn("pv increment failed", zap.String("post_id", id), zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// CreatePost validates and stores a new post written by authorID
func (s *PostService) CreatePost(ctx context.Context, authorID, title, content string) (*models.Post, error) {
	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// EditablePost returns the raw post if userID may modify it
func (s *PostService) EditablePost(ctx context.Context, userID, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetRawByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		return nil, ErrPermission
	}
	return post, nil
}

// UpdatePost replaces title and content. Input is validated before the store is touched.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID, title, content string) error {
	draft := &models.Post{AuthorID: userID, Title: title, Content: content}
	if err := draft.Validate(); err != nil {
		return err
	}

	if _, err := s.EditablePost(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.postRepo.Update(ctx, postID, title, content); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	if _, err := s.EditablePost(ctx, userID, postID); err != nil {
		return err
	}
	// The post goes first so a comment racing the delete fails its parent check
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}
