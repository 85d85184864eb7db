package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/inkpost/inkpost/internal/storage"

	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders holds the request-scoped batch loaders.
type Loaders struct {
	CommentCountByPostID *dataloader.Loader
}

// Middleware installs fresh loaders into each request's context. The listing
// handler decorates every post with its comment count; batching collapses
// those N lookups into one store query per request.
func Middleware(store storage.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
				postIDs := make([]string, len(keys))
				for i, k := range keys {
					postIDs[i] = k.String()
				}

				counts, err := store.CommentCountsByPostIDs(ctx, postIDs)
				results := make([]*dataloader.Result, len(keys))
				if err != nil {
					for i := range results {
						results[i] = &dataloader.Result{Error: err}
					}
					return results
				}

				for i, id := range postIDs {
					results[i] = &dataloader.Result{Data: counts[id]}
				}
				return results
			}

			loaders := Loaders{
				CommentCountByPostID: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(time.Millisecond*1)),
			}

			ctx := context.WithValue(r.Context(), key, &loaders)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// For extracts the loaders from the context; nil when the middleware is not
// installed (callers then fall back to zero counts).
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(key).(*Loaders)
	return loaders
}

// QueueCommentCounts queues one load per post id and returns the thunks.
// Queuing everything before resolving anything lets the loader collapse the
// whole listing into a single batch.
func (l *Loaders) QueueCommentCounts(ctx context.Context, postIDs []string) []func() (int64, error) {
	thunks := make([]func() (int64, error), len(postIDs))
	for i, id := range postIDs {
		raw := l.CommentCountByPostID.Load(ctx, dataloader.StringKey(id))
		thunks[i] = func() (int64, error) {
			v, err := raw()
			if err != nil {
				return 0, err
			}
			count, _ := v.(int64)
			return count, nil
		}
	}
	return thunks
}
