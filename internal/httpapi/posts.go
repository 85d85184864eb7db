package httpapi

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/dataloader"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/service"

	"github.com/go-chi/chi/v5"
)

type postRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Content         string   `json:"content" validate:"required"`
	Author          string   `json:"author"`
	Tags            []string `json:"tags"`
	ImageURL        string   `json:"imageUrl" validate:"omitempty,url"`
	Category        string   `json:"category"`
	Status          string   `json:"status"`
	MetaDescription string   `json:"metaDescription" validate:"max=160"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{
		Title:           r.Title,
		Content:         r.Content,
		Author:          r.Author,
		Tags:            r.Tags,
		ImageURL:        r.ImageURL,
		Category:        r.Category,
		Status:          r.Status,
		MetaDescription: r.MetaDescription,
	}
}

// listedPost decorates a post with its comment count for the listing surface.
type listedPost struct {
	*domain.Post
	CommentsCount int64 `json:"commentsCount"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), service.ListFilter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.withCommentCounts(r, posts))
}

func (h *Handler) searchPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Search(r.Context(), service.ListFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, posts)
}

func (h *Handler) listOwnPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListOwn(r.Context(), callerIdentity(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, posts)
}

func (h *Handler) listBookmarkedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListBookmarked(r.Context(), callerIdentity(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, posts)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	post, err := h.posts.Create(r.Context(), callerIdentity(r.Context()), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, post)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, post)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	post, err := h.posts.Update(r.Context(), callerIdentity(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, post)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), callerIdentity(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Message: "post deleted"})
}

func (h *Handler) withCommentCounts(r *http.Request, posts []*domain.Post) []listedPost {
	out := make([]listedPost, len(posts))
	for i, p := range posts {
		out[i] = listedPost{Post: p}
	}

	loaders := dataloader.For(r.Context())
	if loaders == nil {
		return out
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	// Queue every load before resolving any thunk so they land in one batch.
	thunks := loaders.QueueCommentCounts(r.Context(), ids)
	for i, thunk := range thunks {
		count, err := thunk()
		if err != nil {
			h.log.WarnContext(r.Context(), "comment count load failed", "postId", posts[i].ID, "error", err)
			continue
		}
		out[i].CommentsCount = count
	}
	return out
}
