package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/httpapi"
	"github.com/inkpost/inkpost/internal/service"
	"github.com/inkpost/inkpost/internal/storage"
	"github.com/inkpost/inkpost/internal/storage/inmemory"
	"github.com/inkpost/inkpost/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	storageType := flag.String("storage", cfg.Storage, "Storage type (in-memory or postgres)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var store storage.Storage
	log.Printf("Starting server with %s storage", *storageType)
	if *storageType == "postgres" {
		dsn := cfg.DatabaseURL
		if dsn == "" {
			log.Fatal("INKPOST_DATABASE_URL must be set for postgres storage")
		}
		store, err = postgres.New(dsn)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
	} else {
		mem := inmemory.New()
		fillWithMockData(mem)
		store = mem
	}

	handler := httpapi.NewHandler(
		service.NewPostService(store, logger),
		service.NewCommentService(store, logger),
		service.NewReactionService(store, logger),
		service.NewNewsletterService(store, logger),
		logger,
	)
	router := httpapi.NewRouter(handler, store)

	log.Printf("listening on http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

// fillWithMockData seeds the in-memory backend so the API has something to
// serve in development.
func fillWithMockData(s storage.Storage) {
	ctx := context.Background()

	post, err := s.CreatePost(ctx, &domain.Post{
		Title:       "Getting started with full-text search",
		Content:     "A walk through trigram and tsvector search options, and when the built-in text index is enough.",
		Author:      "Dana Wells",
		UserID:      "user-1",
		Tags:        []string{"search", "databases"},
		Category:    domain.CategoryTechnology,
		Status:      domain.StatusPublished,
		ReadingTime: 4,
	})
	if err != nil {
		log.Fatalf("fillWithMockData: failed to create post: %v", err)
	}

	c1, err := s.CreateComment(ctx, &domain.Comment{
		PostID:  post.ID,
		Author:  "Maya",
		Content: "Great post, the index comparison helped a lot.",
	})
	if err != nil {
		log.Fatalf("fillWithMockData: failed to create comment: %v", err)
	}

	if _, err := s.CreateComment(ctx, &domain.Comment{
		PostID:   post.ID,
		ParentID: &c1.ID,
		Author:   "Dana Wells",
		Content:  "Thanks! Glad it was useful.",
	}); err != nil {
		log.Fatalf("fillWithMockData: failed to create reply: %v", err)
	}

	if _, err := s.CreatePost(ctx, &domain.Post{
		Title:    "Draft: notes on reading time estimates",
		Content:  "Unpublished notes.",
		Author:   "Dana Wells",
		UserID:   "user-1",
		Category: domain.CategoryOther,
		Status:   domain.StatusDraft,
	}); err != nil {
		log.Fatalf("fillWithMockData: failed to create draft: %v", err)
	}

	log.Printf("Mock data filled successfully. Created post ID: %s", post.ID)
}
