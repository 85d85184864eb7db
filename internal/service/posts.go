package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"

	"github.com/lib/pq"
)

// searchResultCap bounds the search surface; the plain listing is uncapped.
const searchResultCap = 50

// wordsPerMinute feeds the readingTime estimate computed at write time.
const wordsPerMinute = 200

// PostService owns post CRUD and the public listing/search surface.
type PostService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewPostService(store storage.Storage, log *slog.Logger) *PostService {
	return &PostService{store: store, log: log}
}

// PostInput carries the caller-editable post fields.
type PostInput struct {
	Title           string
	Content         string
	Author          string
	Tags            []string
	ImageURL        string
	Category        string
	Status          string
	MetaDescription string
}

// ListFilter narrows the public surfaces. Category accepts the sentinel "All"
// and unknown values as "no filter".
type ListFilter struct {
	Query    string
	Category string
	Tag      string
}

func (f ListFilter) storeFilter(limit int) storage.PostFilter {
	out := storage.PostFilter{
		Query:         f.Query,
		Tag:           f.Tag,
		PublishedOnly: true,
		Limit:         limit,
	}
	if c, ok := domain.ParseCategory(f.Category); ok {
		out.Category = c
	}
	return out
}

// Create stores a new post. The owner reference is mandatory; posts are never
// created anonymously.
func (s *PostService) Create(ctx context.Context, caller Identity, in PostInput) (*domain.Post, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	post, err := buildPost(in)
	if err != nil {
		return nil, err
	}
	post.UserID = caller.UserID
	if post.Author == "" {
		post.Author = caller.Name
	}

	created, err := s.store.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.InfoContext(ctx, "post created", "postId", created.ID, "userId", caller.UserID, "status", created.Status)
	return created, nil
}

// Get returns one post and bumps its view counter. The bump is best-effort;
// a failed increment never fails the read.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if err := s.store.IncrementViews(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.WarnContext(ctx, "view increment failed", "postId", id, "error", err)
	}
	return s.store.GetPostByID(ctx, id)
}

// Update rewrites a post's editable fields. Only the owner may update; posts
// written before owner references were mandatory fall back to matching the
// author display name.
func (s *PostService) Update(ctx context.Context, caller Identity, id string, in PostInput) (*domain.Post, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	existing, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(caller, existing) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrForbidden)
	}

	updated, err := buildPost(in)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.Views = existing.Views
	updated.LikesCount = existing.LikesCount
	updated.CreatedAt = existing.CreatedAt
	if updated.Author == "" {
		updated.Author = existing.Author
	}

	out, err := s.store.UpdatePost(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return out, nil
}

// Delete removes a post. Comments and relations referencing it are left
// behind as tombstones; every read path is scoped by postID so they are
// unreachable rather than filtered.
func (s *PostService) Delete(ctx context.Context, caller Identity, id string) error {
	if caller.Anonymous() {
		return domain.ErrUnauthorized
	}
	existing, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if !owns(caller, existing) {
		return fmt.Errorf("post %s: %w", id, domain.ErrForbidden)
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.InfoContext(ctx, "post deleted", "postId", id, "userId", caller.UserID)
	return nil
}

// List serves the public listing: published posts only, uncapped.
func (s *PostService) List(ctx context.Context, f ListFilter) ([]*domain.Post, error) {
	return s.store.ListPosts(ctx, f.storeFilter(0))
}

// Search serves the search surface: published posts only, capped at 50,
// relevance-ordered when a query is present.
func (s *PostService) Search(ctx context.Context, f ListFilter) ([]*domain.Post, error) {
	return s.store.ListPosts(ctx, f.storeFilter(searchResultCap))
}

// ListOwn returns the caller's posts regardless of status.
func (s *PostService) ListOwn(ctx context.Context, caller Identity) ([]*domain.Post, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ListPostsByUser(ctx, caller.UserID)
}

// ListBookmarked returns the posts the caller has bookmarked, newest bookmark
// first.
func (s *PostService) ListBookmarked(ctx context.Context, caller Identity) ([]*domain.Post, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ListBookmarkedPosts(ctx, caller.UserID)
}

func owns(caller Identity, post *domain.Post) bool {
	if post.UserID != "" {
		return post.UserID == caller.UserID
	}
	// Deprecated compatibility path for rows without an owner reference.
	return post.Author != "" && post.Author == caller.Name
}

func buildPost(in PostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalid)
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLen {
		return nil, fmt.Errorf("title cannot be more than %d characters: %w", domain.MaxTitleLen, domain.ErrInvalid)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("content is required: %w", domain.ErrInvalid)
	}
	if utf8.RuneCountInString(in.MetaDescription) > domain.MaxMetaDescriptionLen {
		return nil, fmt.Errorf("meta description cannot be more than %d characters: %w", domain.MaxMetaDescriptionLen, domain.ErrInvalid)
	}

	category := domain.CategoryOther
	if in.Category != "" {
		c, ok := domain.ParseCategory(in.Category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q: %w", in.Category, domain.ErrInvalid)
		}
		category = c
	}

	status := domain.StatusPublished
	if in.Status != "" {
		st, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q: %w", in.Status, domain.ErrInvalid)
		}
		status = st
	}

	return &domain.Post{
		Title:           title,
		Content:         in.Content,
		Author:          strings.TrimSpace(in.Author),
		Tags:            pq.StringArray(in.Tags),
		ImageURL:        in.ImageURL,
		Category:        category,
		Status:          status,
		ReadingTime:     readingTime(in.Content),
		MetaDescription: in.MetaDescription,
	}, nil
}

func readingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
