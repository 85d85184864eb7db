package storage

import (
	"context"

	"github.com/inkpost/inkpost/internal/domain"
)

// RelationKind selects the Like or Bookmark table.
type RelationKind string

const (
	KindLike     RelationKind = "like"
	KindBookmark RelationKind = "bookmark"
)

// PostFilter narrows post listings. Zero values mean "no filter"; filters
// compose with AND. When Query is set, results are ordered by text relevance,
// otherwise by creation time descending. Limit <= 0 means uncapped.
type PostFilter struct {
	Query         string
	Category      domain.Category
	Tag           string
	PublishedOnly bool
	Limit         int
}

// Storage is the contract both backends implement. Create calls fill in the
// ID and timestamps. Lookups that miss return domain.ErrNotFound; a relation
// create that loses the uniqueness race returns domain.ErrAlreadyExists.
type Storage interface {
	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]*domain.Post, error)
	IncrementViews(ctx context.Context, postID string) error
	AdjustLikesCount(ctx context.Context, postID string, delta int) error

	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)

	// CommentCountsByPostIDs backs the listing dataloader with one query.
	CommentCountsByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)

	HasRelation(ctx context.Context, kind RelationKind, postID, userID string) (bool, error)
	CreateRelation(ctx context.Context, kind RelationKind, postID, userID string) error
	DeleteRelation(ctx context.Context, kind RelationKind, postID, userID string) error
	ListBookmarkedPosts(ctx context.Context, userID string) ([]*domain.Post, error)

	GetSubscriptionByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error)
	CreateSubscription(ctx context.Context, sub *domain.NewsletterSubscription) (*domain.NewsletterSubscription, error)
	SetSubscriptionActive(ctx context.Context, email string, active bool) error
}
