package services

import (
	"context"
	"fmt"

	"myblog/app/models"
	"myblog/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment validates and stores a comment on an existing post
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID, content string) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	// Verify post exists
	if _, err := s.postRepo.GetRawByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// DeleteComment deletes a comment written by userID
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !comment.OwnedBy(userID) {
		return ErrPermission
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
