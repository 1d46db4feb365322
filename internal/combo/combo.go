// Package combo enumerates fixed-size subsets of a column set.
package combo

import (
	"strings"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
)

// Combination is an ordered selection of distinct column refs.
type Combination []columns.Ref

// Labels returns the member labels in order.
func (c Combination) Labels() []string {
	out := make([]string, len(c))
	for i, r := range c {
		out[i] = r.Label
	}
	return out
}

func (c Combination) String() string { return strings.Join(c.Labels(), ",") }

// Generate returns every k-subset of refs in lexicographic order of the
// input positions. It returns nil when k < 1 or k > len(refs).
func Generate(refs []columns.Ref, k int) []Combination {
	n := len(refs)
	if k < 1 || k > n {
		return nil
	}
	out := make([]Combination, 0, Count(n, k))
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		c := make(Combination, k)
		for i, p := range idx {
			c[i] = refs[p]
		}
		out = append(out, c)

		// advance the rightmost position that still has room
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Count returns the binomial coefficient C(n, k).
func Count(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}
