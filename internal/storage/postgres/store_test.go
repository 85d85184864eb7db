package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDDL_GeneratedColumnIsImmutable(t *testing.T) {
	require.Len(t, searchDDL, 3)

	fn, column, index := searchDDL[0], searchDDL[1], searchDDL[2]

	// array_to_string is STABLE; it may appear only inside the wrapper that
	// is declared IMMUTABLE, never in the generated-column expression itself.
	assert.Contains(t, fn, "IMMUTABLE")
	assert.Contains(t, fn, "array_to_string")
	assert.Contains(t, column, "GENERATED ALWAYS AS (posts_search_text(")
	assert.NotContains(t, column, "array_to_string")
	assert.NotContains(t, column, "to_tsvector")

	assert.Contains(t, index, "USING GIN (search_vector)")
}

func TestSearchDDL_OneStatementPerExec(t *testing.T) {
	for _, stmt := range searchDDL {
		// Semicolons may only occur inside the dollar-quoted function body;
		// a top-level separator would make Exec multi-statement.
		stripped := stmt
		if start := strings.Index(stripped, "$$"); start >= 0 {
			end := strings.LastIndex(stripped, "$$")
			stripped = stripped[:start] + stripped[end+2:]
		}
		assert.NotContains(t, stripped, ";")
	}
}
