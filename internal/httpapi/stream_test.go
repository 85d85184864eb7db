package httpapi

import (
	"testing"

	"github.com/inkpost/inkpost/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentObserver_FanOut(t *testing.T) {
	o := NewCommentObserver()

	id1, ch1 := o.Subscribe("post-1")
	_, ch2 := o.Subscribe("post-1")
	_, other := o.Subscribe("post-2")

	c := &domain.Comment{ID: "c1", PostID: "post-1", Author: "Maya", Content: "hi"}
	o.Publish("post-1", c)

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
	assert.Equal(t, c, <-ch1)
	assert.Empty(t, other)

	o.Unsubscribe("post-1", id1)
	o.Publish("post-1", c)
	assert.Empty(t, ch1)
	assert.Len(t, ch2, 2)
}

func TestCommentObserver_SlowSubscriberDoesNotBlock(t *testing.T) {
	o := NewCommentObserver()
	_, ch := o.Subscribe("post-1")

	// Overflow the buffer; every publish must return immediately.
	for i := 0; i < 32; i++ {
		o.Publish("post-1", &domain.Comment{ID: "c", PostID: "post-1"})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestCommentObserver_PublishWithoutSubscribers(t *testing.T) {
	o := NewCommentObserver()
	o.Publish("post-1", &domain.Comment{ID: "c", PostID: "post-1"})
}
