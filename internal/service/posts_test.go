package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/storage/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFixture(t *testing.T) (*PostService, *inmemory.Store) {
	t.Helper()
	store := inmemory.New()
	return NewPostService(store, testLogger()), store
}

func TestPostCreate_RequiresIdentity(t *testing.T) {
	svc, _ := newPostFixture(t)

	_, err := svc.Create(context.Background(), Identity{}, PostInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPostCreate_Validation(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()
	caller := Identity{UserID: "user-1", Name: "Dana"}

	cases := []struct {
		name string
		in   PostInput
	}{
		{"missing title", PostInput{Content: "c"}},
		{"blank title", PostInput{Title: "   ", Content: "c"}},
		{"title too long", PostInput{Title: strings.Repeat("a", domain.MaxTitleLen+1), Content: "c"}},
		{"missing content", PostInput{Title: "t"}},
		{"meta too long", PostInput{Title: "t", Content: "c", MetaDescription: strings.Repeat("a", domain.MaxMetaDescriptionLen+1)}},
		{"unknown category", PostInput{Title: "t", Content: "c", Category: "Gardening"}},
		{"unknown status", PostInput{Title: "t", Content: "c", Status: "archived"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, caller, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalid)
		})
	}
}

func TestPostCreate_LimitsCountCharactersNotBytes(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()
	caller := Identity{UserID: "user-1", Name: "Dana"}

	// 150 Cyrillic characters are 300 bytes; still within the 200-char limit.
	post, err := svc.Create(ctx, caller, PostInput{
		Title:   strings.Repeat("ж", 150),
		Content: "c",
	})
	require.NoError(t, err)
	assert.Equal(t, 150, len([]rune(post.Title)))

	_, err = svc.Create(ctx, caller, PostInput{
		Title:   strings.Repeat("ж", domain.MaxTitleLen+1),
		Content: "c",
	})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = svc.Create(ctx, caller, PostInput{
		Title:           "t",
		Content:         "c",
		MetaDescription: strings.Repeat("é", domain.MaxMetaDescriptionLen),
	})
	assert.NoError(t, err)
}

func TestPostCreate_DefaultsAndReadingTime(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, Identity{UserID: "user-1", Name: "Dana"}, PostInput{
		Title:   "A title",
		Content: strings.Repeat("word ", 450),
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", post.UserID)
	assert.Equal(t, "Dana", post.Author)
	assert.Equal(t, domain.CategoryOther, post.Category)
	assert.Equal(t, domain.StatusPublished, post.Status)
	// 450 words at 200 wpm, rounded up.
	assert.Equal(t, 3, post.ReadingTime)
}

func TestPostGet_IncrementsViews(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	created, err := store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", Author: "a", Status: domain.StatusPublished})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestPostUpdate_OwnershipRules(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	owned, err := store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", Author: "Dana", UserID: "user-1", Status: domain.StatusPublished})
	require.NoError(t, err)
	legacy, err := store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", Author: "Old Author", Status: domain.StatusPublished})
	require.NoError(t, err)

	in := PostInput{Title: "updated", Content: "c2"}

	_, err = svc.Update(ctx, Identity{UserID: "user-2"}, owned.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.Update(ctx, Identity{UserID: "user-1", Name: "Dana"}, owned.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Title)
	assert.Equal(t, "user-1", updated.UserID)

	// Legacy rows with no owner reference match by display name only.
	_, err = svc.Update(ctx, Identity{UserID: "user-3", Name: "Somebody Else"}, legacy.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Update(ctx, Identity{UserID: "user-3", Name: "Old Author"}, legacy.ID, in)
	assert.NoError(t, err)
}

func TestPostUpdate_PreservesCounters(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	created, err := store.CreatePost(ctx, &domain.Post{
		Title: "t", Content: "c", Author: "Dana", UserID: "user-1",
		Views: 7, LikesCount: 3, Status: domain.StatusPublished,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, Identity{UserID: "user-1"}, created.ID, PostInput{Title: "t2", Content: "c2"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.Views)
	assert.Equal(t, int64(3), updated.LikesCount)
}

func TestPostDelete(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	created, err := store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", Author: "Dana", UserID: "user-1", Status: domain.StatusPublished})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, Identity{}, created.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, Identity{UserID: "user-2"}, created.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, Identity{UserID: "user-1"}, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, Identity{UserID: "user-1"}, created.ID), domain.ErrNotFound)
}

func TestSearch_CategorySentinel(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	for _, c := range []domain.Category{domain.CategoryTechnology, domain.CategoryHealth} {
		_, err := store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", Author: "a", Category: c, Status: domain.StatusPublished})
		require.NoError(t, err)
	}

	all, err := svc.Search(ctx, ListFilter{Category: "All"})
	require.NoError(t, err)
	none, err := svc.Search(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, len(none), len(all))
	assert.Len(t, all, 2)

	// Unknown category values behave like the sentinel.
	unknown, err := svc.Search(ctx, ListFilter{Category: "NotACategory"})
	require.NoError(t, err)
	assert.Len(t, unknown, 2)
}

func TestSearch_CapsAtFifty(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	for i := 0; i < searchResultCap+5; i++ {
		_, err := store.CreatePost(ctx, &domain.Post{
			Title: fmt.Sprintf("post %d", i), Content: "c", Author: "a", Status: domain.StatusPublished,
		})
		require.NoError(t, err)
	}

	results, err := svc.Search(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, results, searchResultCap)

	// The plain listing surface is uncapped.
	listed, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, searchResultCap+5)
}

func TestListOwn_IncludesDrafts(t *testing.T) {
	svc, store := newPostFixture(t)
	ctx := context.Background()

	_, err := store.CreatePost(ctx, &domain.Post{Title: "pub", Content: "c", Author: "a", UserID: "user-1", Status: domain.StatusPublished})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &domain.Post{Title: "draft", Content: "c", Author: "a", UserID: "user-1", Status: domain.StatusDraft})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &domain.Post{Title: "other", Content: "c", Author: "a", UserID: "user-2", Status: domain.StatusPublished})
	require.NoError(t, err)

	_, err = svc.ListOwn(ctx, Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	own, err := svc.ListOwn(ctx, Identity{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	// Drafts never leak into the public listing.
	public, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	for _, p := range public {
		assert.Equal(t, domain.StatusPublished, p.Status)
	}
}
