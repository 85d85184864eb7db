package httpapi

import "net/http"

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) subscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Message: "subscribed to newsletter"})
}

func (h *Handler) unsubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	if err := h.newsletter.Unsubscribe(r.Context(), r.URL.Query().Get("email")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Message: "unsubscribed from newsletter"})
}
