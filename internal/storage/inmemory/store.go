package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"

	"github.com/google/uuid"
)

// Store implements the Storage interface in memory. Intended for development
// and tests; everything serializes on one RWMutex, which incidentally makes
// the toggle counter updates atomic (the Postgres backend is best-effort).
type Store struct {
	mu             sync.RWMutex
	posts          map[string]*domain.Post
	comments       map[string]*domain.Comment
	commentsByPost map[string][]string                           // insertion order
	relations      map[storage.RelationKind]map[string]map[string]time.Time // kind -> postID -> userID
	subscriptions  map[string]*domain.NewsletterSubscription                // key: lowercased email
}

func New() *Store {
	return &Store{
		posts:          make(map[string]*domain.Post),
		comments:       make(map[string]*domain.Comment),
		commentsByPost: make(map[string][]string),
		relations: map[storage.RelationKind]map[string]map[string]time.Time{
			storage.KindLike:     {},
			storage.KindBookmark: {},
		},
		subscriptions: make(map[string]*domain.NewsletterSubscription),
	}
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return post, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return nil, fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
	}
	post.UpdatedAt = time.Now().UTC()
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	// No cascade: comments and relations referencing the post stay behind as
	// tombstones, unreachable because every read is scoped by postID.
	delete(s.posts, id)
	return nil
}

func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		post  *domain.Post
		score int
	}
	var matched []scored
	for _, p := range s.posts {
		if filter.PublishedOnly && p.Status != domain.StatusPublished {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !containsTag(p.Tags, filter.Tag) {
			continue
		}
		score := 0
		if filter.Query != "" {
			score = textScore(p, filter.Query)
			if score == 0 {
				continue
			}
		}
		matched = append(matched, scored{post: p, score: score})
	}

	if filter.Query != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].score != matched[j].score {
				return matched[i].score > matched[j].score
			}
			return matched[i].post.CreatedAt.After(matched[j].post.CreatedAt)
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].post.CreatedAt.After(matched[j].post.CreatedAt)
		})
	}

	out := make([]*domain.Post, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.post)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) ListPostsByUser(ctx context.Context, userID string) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Post
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) IncrementViews(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	post.Views++
	return nil
}

func (s *Store) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	post.LikesCount += int64(delta)
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// textScore is the in-memory stand-in for Postgres text relevance: the number
// of query-term occurrences across title, content and tags, case-insensitive.
func textScore(p *domain.Post, query string) int {
	haystack := strings.ToLower(p.Title + " " + p.Content + " " + strings.Join(p.Tags, " "))
	score := 0
	for _, term := range strings.Fields(strings.ToLower(query)) {
		score += strings.Count(haystack, term)
	}
	return score
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	s.comments[comment.ID] = comment
	s.commentsByPost[comment.PostID] = append(s.commentsByPost[comment.PostID], comment.ID)
	return comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByPost[postID]
	// Feed order is newest-first; the tree builder preserves it.
	out := make([]*domain.Comment, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if c, ok := s.comments[ids[i]]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CommentCountsByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		counts[id] = int64(len(s.commentsByPost[id]))
	}
	return counts, nil
}

// === Relation Methods ===

func (s *Store) HasRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.relations[kind][postID][userID]
	return ok, nil
}

func (s *Store) CreateRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser, ok := s.relations[kind][postID]
	if !ok {
		byUser = make(map[string]time.Time)
		s.relations[kind][postID] = byUser
	}
	if _, ok := byUser[userID]; ok {
		return fmt.Errorf("%s on post %s: %w", kind, postID, domain.ErrAlreadyExists)
	}
	byUser[userID] = time.Now().UTC()
	return nil
}

func (s *Store) DeleteRelation(ctx context.Context, kind storage.RelationKind, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser := s.relations[kind][postID]
	if _, ok := byUser[userID]; !ok {
		return fmt.Errorf("%s on post %s: %w", kind, postID, domain.ErrNotFound)
	}
	delete(byUser, userID)
	if len(byUser) == 0 {
		delete(s.relations[kind], postID)
	}
	return nil
}

func (s *Store) ListBookmarkedPosts(ctx context.Context, userID string) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		post *domain.Post
		at   time.Time
	}
	var entries []entry
	for postID, byUser := range s.relations[storage.KindBookmark] {
		at, ok := byUser[userID]
		if !ok {
			continue
		}
		// Bookmarks of a deleted post are tombstones; skip them.
		if post, ok := s.posts[postID]; ok {
			entries = append(entries, entry{post: post, at: at})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})
	out := make([]*domain.Post, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.post)
	}
	return out, nil
}

// === Newsletter Methods ===

func (s *Store) GetSubscriptionByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[email]
	if !ok {
		return nil, fmt.Errorf("subscription %s: %w", email, domain.ErrNotFound)
	}
	return sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *domain.NewsletterSubscription) (*domain.NewsletterSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[sub.Email]; ok {
		return nil, fmt.Errorf("subscription %s: %w", sub.Email, domain.ErrAlreadyExists)
	}
	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()
	sub.UpdatedAt = sub.CreatedAt
	s.subscriptions[sub.Email] = sub
	return sub, nil
}

func (s *Store) SetSubscriptionActive(ctx context.Context, email string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[email]
	if !ok {
		return fmt.Errorf("subscription %s: %w", email, domain.ErrNotFound)
	}
	sub.Active = active
	sub.UpdatedAt = time.Now().UTC()
	return nil
}
