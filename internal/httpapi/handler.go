// Package httpapi is the request-handling boundary: routing, identity
// resolution, payload validation and response framing around the services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/internal/dataloader"
	"github.com/inkpost/inkpost/internal/service"
	"github.com/inkpost/inkpost/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

type Handler struct {
	posts      *service.PostService
	comments   *service.CommentService
	reactions  *service.ReactionService
	newsletter *service.NewsletterService
	observer   *CommentObserver
	validate   *validator.Validate
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func NewHandler(
	posts *service.PostService,
	comments *service.CommentService,
	reactions *service.ReactionService,
	newsletter *service.NewsletterService,
	log *slog.Logger,
) *Handler {
	return &Handler{
		posts:      posts,
		comments:   comments,
		reactions:  reactions,
		newsletter: newsletter,
		observer:   NewCommentObserver(),
		validate:   validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// NewRouter mounts the API. The dataloader middleware needs the store so the
// listing surface can batch its per-post comment counts.
func NewRouter(h *Handler, store storage.Storage) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(identityMiddleware)
	r.Use(dataloader.Middleware(store))

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.listPosts)
			r.Post("/", h.createPost)
			r.Get("/mine", h.listOwnPosts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getPost)
				r.Put("/", h.updatePost)
				r.Delete("/", h.deletePost)
				r.Get("/comments", h.commentFeed)
				r.Get("/comments/stream", h.streamComments)
			})
		})
		r.Get("/search", h.searchPosts)
		r.Post("/comments", h.createComment)
		r.Post("/likes", h.toggleLike)
		r.Get("/likes", h.likeStatus)
		r.Post("/bookmarks", h.toggleBookmark)
		r.Get("/bookmarks", h.bookmarkStatus)
		r.Get("/user/bookmarks", h.listBookmarkedPosts)
		r.Post("/newsletter", h.subscribeNewsletter)
		r.Delete("/newsletter", h.unsubscribeNewsletter)
	})

	return r
}
