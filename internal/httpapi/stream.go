package httpapi

import (
	"net/http"
	"sync"

	"github.com/inkpost/inkpost/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CommentObserver fans accepted comments out to websocket subscribers,
// per post.
type CommentObserver struct {
	mu sync.RWMutex
	//          map[postID] map[subscriberID] channel
	subs map[string]map[string]chan *domain.Comment
}

func NewCommentObserver() *CommentObserver {
	return &CommentObserver{
		subs: make(map[string]map[string]chan *domain.Comment),
	}
}

// Subscribe registers a buffered channel for one post and returns the
// subscriber id used to unsubscribe.
func (o *CommentObserver) Subscribe(postID string) (string, <-chan *domain.Comment) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan *domain.Comment, 8)
	if o.subs[postID] == nil {
		o.subs[postID] = make(map[string]chan *domain.Comment)
	}
	o.subs[postID][id] = ch
	return id, ch
}

func (o *CommentObserver) Unsubscribe(postID, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if subs, ok := o.subs[postID]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(o.subs, postID)
		}
	}
}

// Publish delivers the comment to every subscriber of its post. Sends never
// block: a subscriber that cannot keep up misses the comment rather than
// stalling the request that created it.
func (o *CommentObserver) Publish(postID string, c *domain.Comment) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, ch := range o.subs[postID] {
		select {
		case ch <- c:
		default:
		}
	}
}

// streamComments upgrades to a websocket and forwards every comment accepted
// for the post while the connection lasts.
func (h *Handler) streamComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", "postId", postID, "error", err)
		return
	}
	defer conn.Close()

	subID, ch := h.observer.Subscribe(postID)
	defer h.observer.Unsubscribe(postID, subID)

	// Drain the read side so peer close is noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case comment := <-ch:
			if err := conn.WriteJSON(comment); err != nil {
				return
			}
		}
	}
}
