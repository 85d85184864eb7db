package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage"
)

// NewsletterService manages subscriptions. Emails are unique
// case-insensitively: they are lowercased and trimmed before any store access.
type NewsletterService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewNewsletterService(store storage.Storage, log *slog.Logger) *NewsletterService {
	return &NewsletterService{store: store, log: log}
}

// Subscribe adds the email, reactivating a previously unsubscribed one. A
// currently active subscription is a conflict.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	existing, err := s.store.GetSubscriptionByEmail(ctx, normalized)
	switch {
	case err == nil:
		if existing.Active {
			return fmt.Errorf("email already subscribed: %w", domain.ErrAlreadyExists)
		}
		return s.store.SetSubscriptionActive(ctx, normalized, true)
	case errors.Is(err, domain.ErrNotFound):
		// fall through to create
	default:
		return fmt.Errorf("lookup subscription: %w", err)
	}

	_, err = s.store.CreateSubscription(ctx, &domain.NewsletterSubscription{
		Email:  normalized,
		Active: true,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("email already subscribed: %w", domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	s.log.InfoContext(ctx, "newsletter subscription created", "email", normalized)
	return nil
}

// Unsubscribe deactivates the subscription but keeps the row, so a later
// Subscribe reactivates instead of recreating.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return s.store.SetSubscriptionActive(ctx, normalized, false)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", fmt.Errorf("email is required: %w", domain.ErrInvalid)
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", fmt.Errorf("invalid email address: %w", domain.ErrInvalid)
	}
	return normalized, nil
}
