package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements the Storage interface on PostgreSQL via GORM.
type Store struct {
	db *gorm.DB
}

// New connects, migrates the schema, and installs the search index. The
// search index is a generated tsvector over title, content and tags, which
// AutoMigrate cannot express, so it is applied as raw DDL.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique violations as gorm.ErrDuplicatedKey; the toggle
		// race reinterpretation depends on it.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
		&domain.Bookmark{},
		&domain.NewsletterSubscription{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range searchDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to install search index: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// searchDDL sets up the full-text search column. A generated column may only
// call immutable functions and array_to_string is STABLE, so the expression
// lives in an IMMUTABLE SQL wrapper. One statement per entry: the driver
// rejects multi-statement Exec.
var searchDDL = []string{
	`CREATE OR REPLACE FUNCTION posts_search_text(title text, content text, tags text[])
		RETURNS tsvector
		LANGUAGE sql IMMUTABLE AS
		$$ SELECT to_tsvector('english',
			coalesce(title, '') || ' ' ||
			coalesce(content, '') || ' ' ||
			coalesce(array_to_string(tags, ' '), '')) $$`,
	`ALTER TABLE posts ADD COLUMN IF NOT EXISTS search_vector tsvector
		GENERATED ALWAYS AS (posts_search_text(title, content, tags)) STORED`,
	`CREATE INDEX IF NOT EXISTS idx_posts_search ON posts USING GIN (search_vector)`,
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Post
		if err := tx.Select("id").First(&existing, "id = ?", post.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
			}
			return err
		}
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	// No cascade: comments, likes and bookmarks of the post become
	// tombstones, unreachable because every read is scoped by postID.
	res := s.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter) ([]*domain.Post, error) {
	var posts []*domain.Post

	q := s.db.WithContext(ctx).Model(&domain.Post{})
	if filter.PublishedOnly {
		q = q.Where("status = ?", domain.StatusPublished)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Tag != "" {
		q = q.Where("? = ANY(tags)", filter.Tag)
	}
	if filter.Query != "" {
		q = q.Select("*, ts_rank(search_vector, plainto_tsquery('english', ?)) AS rank", filter.Query).
			Where("search_vector @@ plainto_tsquery('english', ?)", filter.Query).
			Order("rank DESC, created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	err := q.Find(&posts).Error
	return posts, err
}

func (s *Store) ListPostsByUser(ctx context.Context, userID string) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (s *Store) IncrementViews(ctx context.Context, postID string) error {
	res := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	res := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	// Newest-first feed order; the tree builder preserves it.
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (s *Store) CommentCountsByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	var rows []struct {
		PostID string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("post_id, count(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// === Relation Methods ===

func (s *Store) HasRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) (bool, error) {
	var count int64
	err := s.relationModel(ctx, kind).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) error {
	var err error
	switch kind {
	case storage.KindBookmark:
		err = s.db.WithContext(ctx).Create(&domain.Bookmark{PostID: postID, UserID: userID}).Error
	default:
		err = s.db.WithContext(ctx).Create(&domain.Like{PostID: postID, UserID: userID}).Error
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s on post %s: %w", kind, postID, domain.ErrAlreadyExists)
	}
	return err
}

func (s *Store) DeleteRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) error {
	var res *gorm.DB
	if kind == storage.KindBookmark {
		res = s.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&domain.Bookmark{})
	} else {
		res = s.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&domain.Like{})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s on post %s: %w", kind, postID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) relationModel(ctx context.Context, kind storage.RelationKind) *gorm.DB {
	if kind == storage.KindBookmark {
		return s.db.WithContext(ctx).Model(&domain.Bookmark{})
	}
	return s.db.WithContext(ctx).Model(&domain.Like{})
}

func (s *Store) ListBookmarkedPosts(ctx context.Context, userID string) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).Model(&domain.Post{}).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Find(&posts).Error
	return posts, err
}

// === Newsletter Methods ===

func (s *Store) GetSubscriptionByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	var sub domain.NewsletterSubscription
	if err := s.db.WithContext(ctx).First(&sub, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscription %s: %w", email, domain.ErrNotFound)
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *domain.NewsletterSubscription) (*domain.NewsletterSubscription, error) {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("subscription %s: %w", sub.Email, domain.ErrAlreadyExists)
		}
		return nil, err
	}
	return sub, nil
}

func (s *Store) SetSubscriptionActive(ctx context.Context, email string, active bool) error {
	res := s.db.WithContext(ctx).Model(&domain.NewsletterSubscription{}).
		Where("email = ?", email).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscription %s: %w", email, domain.ErrNotFound)
	}
	return nil
}
