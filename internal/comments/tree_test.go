package comments

import (
	"testing"

	"github.com/inkpost/inkpost/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id string, parentID *string) *domain.Comment {
	return &domain.Comment{ID: id, PostID: "post-1", Author: "someone", Content: "content " + id, ParentID: parentID}
}

func ptr(s string) *string { return &s }

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuildTree_Empty(t *testing.T) {
	forest, total := BuildTree(nil)
	assert.Empty(t, forest)
	assert.Equal(t, 0, total)
}

func TestBuildTree_NestedReplies(t *testing.T) {
	// Feed order is newest-first; c3 replies to c2, c2 replies to c1.
	list := []*domain.Comment{
		comment("c3", ptr("c2")),
		comment("c2", ptr("c1")),
		comment("c1", nil),
	}

	forest, total := BuildTree(list)
	assert.Equal(t, 3, total)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, "c1", root.ID)
	assert.Equal(t, 0, root.Depth)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "c2", root.Children[0].ID)
	assert.Equal(t, 1, root.Children[0].Depth)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "c3", root.Children[0].Children[0].ID)
	assert.Equal(t, 2, root.Children[0].Children[0].Depth)
}

func TestBuildTree_PreservesIterationOrder(t *testing.T) {
	list := []*domain.Comment{
		comment("c5", nil),
		comment("c4", ptr("c1")),
		comment("c3", nil),
		comment("c2", ptr("c1")),
		comment("c1", nil),
	}

	forest, total := BuildTree(list)
	assert.Equal(t, 5, total)
	require.Len(t, forest, 3)
	assert.Equal(t, []string{"c5", "c3", "c1"}, ids(forest))
	assert.Equal(t, []string{"c4", "c2"}, ids(forest[2].Children))
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	list := []*domain.Comment{
		comment("c1", nil),
		comment("c2", ptr("deleted-parent")),
	}

	forest, total := BuildTree(list)
	assert.Equal(t, 2, total)
	require.Len(t, forest, 2)
	assert.Equal(t, "c2", forest[1].ID)
	assert.Equal(t, 0, forest[1].Depth)
}

func TestBuildTree_SelfReferenceBecomesRoot(t *testing.T) {
	list := []*domain.Comment{
		comment("c1", ptr("c1")),
	}

	forest, total := BuildTree(list)
	assert.Equal(t, 1, total)
	require.Len(t, forest, 1)
	assert.Equal(t, "c1", forest[0].ID)
	assert.Empty(t, forest[0].Children)
}

func TestBuildTree_CycleDoesNotHang(t *testing.T) {
	// A two-node cycle can only come from direct store manipulation. Both
	// members lose their forest slot, but the build must terminate.
	list := []*domain.Comment{
		comment("a", ptr("b")),
		comment("b", ptr("a")),
		comment("c", nil),
	}

	forest, total := BuildTree(list)
	assert.Equal(t, 3, total)
	require.Len(t, forest, 1)
	assert.Equal(t, "c", forest[0].ID)
}

func TestBuildTree_CountIncludesAllDepths(t *testing.T) {
	list := []*domain.Comment{
		comment("c1", nil),
		comment("c2", ptr("c1")),
		comment("c3", ptr("c2")),
		comment("c4", ptr("c3")),
		comment("c5", ptr("nowhere")),
	}

	_, total := BuildTree(list)
	assert.Equal(t, len(list), total)
}

func TestFlatten_RoundTrip(t *testing.T) {
	list := []*domain.Comment{
		comment("c6", ptr("c2")),
		comment("c5", nil),
		comment("c4", ptr("c5")),
		comment("c3", ptr("missing")),
		comment("c2", nil),
		comment("c1", ptr("c2")),
	}

	forest, total := BuildTree(list)
	flat := Flatten(forest)
	require.Equal(t, total, len(flat))

	// Same multiset of identifiers as the input.
	want := map[string]int{}
	for _, c := range list {
		want[c.ID]++
	}
	got := map[string]int{}
	for _, c := range flat {
		got[c.ID]++
	}
	assert.Equal(t, want, got)
}
