package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/inkpost/inkpost/internal/comments"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"
)

// CommentService accepts comments and serves the threaded feed. Commenting is
// open to anonymous visitors; the author field is a free display name.
type CommentService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewCommentService(store storage.Storage, log *slog.Logger) *CommentService {
	return &CommentService{store: store, log: log}
}

// NewComment is the inbound shape for one comment.
type NewComment struct {
	PostID   string
	Author   string
	Content  string
	ParentID *string
}

// Add validates and stores a comment. Post existence is the caller's
// prerequisite and is not re-checked here; likewise an unresolvable parent
// reference is accepted and will surface as a root in the feed.
func (s *CommentService) Add(ctx context.Context, in NewComment) (*domain.Comment, error) {
	if in.PostID == "" {
		return nil, fmt.Errorf("post id is required: %w", domain.ErrInvalid)
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		return nil, fmt.Errorf("author is required: %w", domain.ErrInvalid)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("comment content cannot be empty: %w", domain.ErrInvalid)
	}
	if utf8.RuneCountInString(in.Content) > domain.MaxCommentLen {
		return nil, fmt.Errorf("comment cannot be more than %d characters: %w", domain.MaxCommentLen, domain.ErrInvalid)
	}

	comment, err := s.store.CreateComment(ctx, &domain.Comment{
		PostID:   in.PostID,
		ParentID: in.ParentID,
		Author:   author,
		Content:  in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Feed loads the post's complete flat comment list (newest first) and builds
// the reply forest plus the total count across all depths.
func (s *CommentService) Feed(ctx context.Context, postID string) ([]*comments.Node, int, error) {
	if postID == "" {
		return nil, 0, fmt.Errorf("post id is required: %w", domain.ErrInvalid)
	}
	list, err := s.store.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, 0, fmt.Errorf("load comments: %w", err)
	}
	forest, total := comments.BuildTree(list)
	return forest, total, nil
}
