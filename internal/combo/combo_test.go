package combo

import (
	"testing"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(t *testing.T, labels ...string) []columns.Ref {
	t.Helper()
	s, err := columns.SetFromLabels(labels)
	require.NoError(t, err)
	return s.Refs()
}

func TestGenerateCountsAndDistinct(t *testing.T) {
	star, err := columns.Preset("star")
	require.NoError(t, err)
	in := refs(t, star...)
	for k := 1; k <= len(in); k++ {
		got := Generate(in, k)
		require.Len(t, got, Count(len(in), k), "k=%d", k)
		seen := map[string]bool{}
		for _, c := range got {
			require.Len(t, c, k)
			key := c.String()
			require.False(t, seen[key], "duplicate %s", key)
			seen[key] = true
			for i := 1; i < len(c); i++ {
				require.Less(t, c[i-1].Index, c[i].Index)
			}
		}
	}
}

func TestGenerateOrder(t *testing.T) {
	got := Generate(refs(t, "A", "B", "C", "D"), 2)
	var labels []string
	for _, c := range got {
		labels = append(labels, c.String())
	}
	assert.Equal(t, []string{"A,B", "A,C", "A,D", "B,C", "B,D", "C,D"}, labels)
}

func TestGenerateOutOfRange(t *testing.T) {
	in := refs(t, "A", "B", "C")
	assert.Empty(t, Generate(in, 4))
	assert.Empty(t, Generate(in, 0))
	assert.Len(t, Generate(in, 3), 1)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 165, Count(11, 3))
	assert.Equal(t, 462, Count(11, 5))
	assert.Equal(t, 1, Count(5, 0))
	assert.Equal(t, 0, Count(3, 4))
}
