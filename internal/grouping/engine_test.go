package grouping

import (
	"testing"

	"github.com/KaramelBytes/combotally-cli/internal/columns"
	"github.com/KaramelBytes/combotally-cli/internal/combo"
	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comb(t *testing.T, labels ...string) combo.Combination {
	t.Helper()
	s, err := columns.SetFromLabels(labels)
	require.NoError(t, err)
	return combo.Combination(s.Refs())
}

// identity in A, outcome in B, combination columns C and D
var base = Config{IdentityColumn: 0, OutcomeColumn: 1}

func TestAggregateEndToEnd(t *testing.T) {
	tb := table.Table{
		{"P1", "over", "X", "1"},
		{"P1", "under", "X", "1"},
		{"P1", "win", "Y", "2"},
		{"P1", "lose", "Y", "2"},
	}
	got := Aggregate(tb, base, comb(t, "C", "D"))
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "P1", r.Identity)
		assert.Equal(t, 2, r.Total)
		assert.Equal(t, 1, r.Positive)
		assert.True(t, r.Rate.Equal(decimal.RequireFromString("0.50")), r.Rate.String())
	}
	assert.Equal(t, []Member{{"C", "X"}, {"D", "1"}}, got[0].Members)
	assert.Equal(t, []Member{{"C", "Y"}, {"D", "2"}}, got[1].Members)
}

func TestAggregateClassificationIgnoresCase(t *testing.T) {
	tb := table.Table{
		{"P1", "WIN", "X"},
		{"P1", " Lose ", "X"},
		{"P1", "tie", "X"},
		{"P1", "", "X"},
	}
	got := Aggregate(tb, base, comb(t, "C"))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Positive)
	assert.Equal(t, 1, got[0].Negative)
	assert.Equal(t, 2, got[0].Total)
}

func TestAggregateDropsUnclassifiedBuckets(t *testing.T) {
	tb := table.Table{
		{"P1", "tie", "X"},
		{"P1", "push", "Y"},
		{"P1", "over", "Z"},
	}
	got := Aggregate(tb, base, comb(t, "C"))
	require.Len(t, got, 1)
	assert.Equal(t, "Z", got[0].Members[0].Value)
}

func TestAggregateRounding(t *testing.T) {
	tb := table.Table{
		{"P1", "win", "X"},
		{"P1", "lose", "X"},
		{"P1", "lose", "X"},
	}
	got := Aggregate(tb, base, comb(t, "C"))
	require.Len(t, got, 1)
	assert.Equal(t, "0.33", got[0].Rate.StringFixed(2))

	// 57/200 = 0.285 exactly; float rounding would give 0.28
	var big table.Table
	for i := 0; i < 200; i++ {
		out := "lose"
		if i < 57 {
			out = "win"
		}
		big = append(big, []string{"P1", out, "X"})
	}
	got = Aggregate(big, base, comb(t, "C"))
	require.Len(t, got, 1)
	assert.Equal(t, "0.29", got[0].Rate.StringFixed(2))
}

func TestAggregateSkipsShortRows(t *testing.T) {
	tb := table.Table{
		{"P1", "win", "X", "1"},
		{"P1", "win"},
		{"P2"},
		{},
	}
	got := Aggregate(tb, base, comb(t, "C", "D"))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Total)
}

func TestAggregateKeyHasNoDelimiterCollision(t *testing.T) {
	// joined with "|" both rows would read "P1|a|b|c"
	tb := table.Table{
		{"P1", "win", "a|b", "c"},
		{"P1", "lose", "a", "b|c"},
	}
	got := Aggregate(tb, base, comb(t, "C", "D"))
	assert.Len(t, got, 2)
}

func TestAggregateIdempotentAndPure(t *testing.T) {
	tb := table.Table{
		{"P2", "win", "X", "1"},
		{"P1", "lose", "Y", "1"},
		{"P1", "over", "X", "1"},
	}
	before := tb.Clone()
	c := comb(t, "C", "D")
	first := Aggregate(tb, base, c)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Aggregate(tb, base, c))
	}
	assert.Equal(t, before, tb)
	assert.Equal(t, "P1", first[0].Identity)
}

func TestAggregatePairedColumn(t *testing.T) {
	tb := table.Table{
		{"P1", "win", "10", "x"},
		{"P1", "win", "10", "y"},
	}
	got := Aggregate(tb, Config{OutcomeColumn: 1, IncludePaired: true}, comb(t, "C"))
	require.Len(t, got, 2)
	assert.Equal(t, []Member{{"C", "10"}, {"D", "x"}}, got[0].Members)
}

func TestAggregateSumAndPadding(t *testing.T) {
	tb := table.Table{
		{"P1", "win", "7", "abc"},
		{"P1", "lose", "7", "abc"},
	}
	got := Aggregate(tb, Config{OutcomeColumn: 1, SumValues: true, PadWidth: 3}, comb(t, "C", "D"))
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Sum)
	assert.Equal(t, "007", got[0].Members[0].Value)
	assert.Equal(t, "abc", got[0].Members[1].Value)
}

func TestRunReportsProgress(t *testing.T) {
	tb := table.Table{{"P1", "win", "a", "b", "c"}}
	s, err := columns.SetFromLabels([]string{"C", "D", "E"})
	require.NoError(t, err)
	combos := combo.Generate(s.Refs(), 2)

	var calls []int
	rows := Run(tb, base, combos, func(done, total int, c combo.Combination) {
		assert.Equal(t, 3, total)
		assert.Len(t, c, 2)
		calls = append(calls, done)
	})
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Len(t, rows, 3)
}

func TestParseIntLoose(t *testing.T) {
	assert.Equal(t, 0, ParseIntLoose("abc"))
	assert.Equal(t, 12, ParseIntLoose(" 12 "))
	assert.Equal(t, 12, ParseIntLoose("12.0"))
	assert.Equal(t, -3, ParseIntLoose("-3"))
	assert.Equal(t, 0, ParseIntLoose(""))
	assert.Equal(t, 0, ParseIntLoose("NaN"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, base.Validate())
	assert.Error(t, Config{IdentityColumn: -1}.Validate())
	assert.Error(t, Config{PadWidth: -2}.Validate())
}
