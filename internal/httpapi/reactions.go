package httpapi

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/storage"
)

type toggleRequest struct {
	PostID string `json:"postId" validate:"required"`
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, storage.KindLike)
}

func (h *Handler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, storage.KindBookmark)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, kind storage.RelationKind) {
	var req toggleRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	on, err := h.reactions.Toggle(r.Context(), kind, req.PostID, callerIdentity(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, statusPayload(kind, on))
}

func (h *Handler) likeStatus(w http.ResponseWriter, r *http.Request) {
	h.relationStatus(w, r, storage.KindLike)
}

func (h *Handler) bookmarkStatus(w http.ResponseWriter, r *http.Request) {
	h.relationStatus(w, r, storage.KindBookmark)
}

// relationStatus is a pure read: anonymous callers get "off", never a 401.
func (h *Handler) relationStatus(w http.ResponseWriter, r *http.Request, kind storage.RelationKind) {
	on, err := h.reactions.Status(r.Context(), kind, r.URL.Query().Get("postId"), callerIdentity(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, statusPayload(kind, on))
}

func statusPayload(kind storage.RelationKind, on bool) map[string]bool {
	if kind == storage.KindBookmark {
		return map[string]bool{"bookmarked": on}
	}
	return map[string]bool{"liked": on}
}
