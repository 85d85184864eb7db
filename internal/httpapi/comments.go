package httpapi

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/service"

	"github.com/go-chi/chi/v5"
)

type commentRequest struct {
	PostID   string  `json:"postId" validate:"required"`
	Author   string  `json:"author" validate:"required"`
	Content  string  `json:"content" validate:"required,max=500"`
	ParentID *string `json:"parentId"`
}

// commentFeedResponse carries the reply forest and the count across all
// depths, not just the roots.
type commentFeedResponse struct {
	Comments any `json:"comments"`
	Count    int `json:"count"`
}

func (h *Handler) commentFeed(w http.ResponseWriter, r *http.Request) {
	forest, total, err := h.comments.Feed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, commentFeedResponse{Comments: forest, Count: total})
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	comment, err := h.comments.Add(r.Context(), service.NewComment{
		PostID:   req.PostID,
		Author:   req.Author,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.observer.Publish(comment.PostID, comment)
	h.created(w, comment)
}
