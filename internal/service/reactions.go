package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"
)

// ReactionService toggles like/bookmark relations. A toggle is strict: the
// caller never declares a direction, the current state decides.
//
// likesCount is a denormalized counter maintained only here, as a second store
// call after the relation write. The two steps are deliberately not wrapped in
// a cross-collection transaction; if the counter update fails the relation
// still stands and the drift is logged. The in-memory backend happens to be
// atomic under its mutex.
type ReactionService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewReactionService(store storage.Storage, log *slog.Logger) *ReactionService {
	return &ReactionService{store: store, log: log}
}

// Toggle flips the (post, user) relation of the given kind and reports the
// resulting state: true for "on", false for "off". Write attempts without an
// identity are rejected before any store access.
func (s *ReactionService) Toggle(ctx context.Context, kind storage.RelationKind, postID string, caller Identity) (bool, error) {
	if caller.Anonymous() {
		return false, domain.ErrUnauthorized
	}
	if postID == "" {
		return false, fmt.Errorf("post id is required: %w", domain.ErrInvalid)
	}

	exists, err := s.store.HasRelation(ctx, kind, postID, caller.UserID)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", kind, err)
	}

	if exists {
		if err := s.store.DeleteRelation(ctx, kind, postID, caller.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A concurrent toggle already removed it.
				return false, nil
			}
			return false, fmt.Errorf("remove %s: %w", kind, err)
		}
		if kind == storage.KindLike {
			s.adjustLikes(ctx, postID, -1)
		}
		return false, nil
	}

	if err := s.store.CreateRelation(ctx, kind, postID, caller.UserID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the create race against a concurrent toggle; the store's
			// uniqueness constraint kept a single row. Already on, and the
			// winner owns the counter increment.
			return true, nil
		}
		return false, fmt.Errorf("create %s: %w", kind, err)
	}
	if kind == storage.KindLike {
		s.adjustLikes(ctx, postID, 1)
	}
	return true, nil
}

// Status reports whether the relation currently exists. Anonymous callers get
// "off" without error; a status read never requires identity.
func (s *ReactionService) Status(ctx context.Context, kind storage.RelationKind, postID string, caller Identity) (bool, error) {
	if postID == "" {
		return false, fmt.Errorf("post id is required: %w", domain.ErrInvalid)
	}
	if caller.Anonymous() {
		return false, nil
	}
	return s.store.HasRelation(ctx, kind, postID, caller.UserID)
}

func (s *ReactionService) adjustLikes(ctx context.Context, postID string, delta int) {
	if err := s.store.AdjustLikesCount(ctx, postID, delta); err != nil {
		s.log.WarnContext(ctx, "likesCount adjustment failed, counter may drift",
			"postId", postID, "delta", delta, "error", err)
	}
}
