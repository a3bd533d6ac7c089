package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/peerreview/internal/rubric"
)

type mapScores map[string]int

func (m mapScores) Score(id string) (int, bool) {
	v, ok := m[id]
	return v, ok
}

func sixtyForty() rubric.Catalog {
	return rubric.Catalog{Criteria: []rubric.Criterion{
		{ID: "a", Category: "A", Weight: 60},
		{ID: "b", Category: "B", Weight: 40},
	}}
}

func TestComputeTotalScenarios(t *testing.T) {
	c := sixtyForty()
	tests := []struct {
		name   string
		scores mapScores
		want   float64
		text   string
	}{
		{"all max", mapScores{"a": 5, "b": 5}, 100.0, "100.0"},
		{"all min", mapScores{"a": 1, "b": 1}, 20.0, "20.0"},
		{"mixed", mapScores{"a": 3, "b": 5}, 76.0, "76.0"},
		{"missing counts as zero", mapScores{"a": 5}, 60.0, "60.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(c, tt.scores)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.text, FormatTotal(got))
		})
	}
}

func TestComputeTotalRoundsToOneDecimal(t *testing.T) {
	c := rubric.Catalog{Criteria: []rubric.Criterion{
		{ID: "a", Category: "A", Weight: 33.3},
		{ID: "b", Category: "B", Weight: 66.7},
	}}
	got := ComputeTotal(c, mapScores{"a": 2, "b": 3})
	// 13.32 + 40.02 = 53.34
	assert.InDelta(t, 53.3, got, 1e-9)
}

func TestComputeTotalBoundedAndMonotonic(t *testing.T) {
	c, err := rubric.Builtin(rubric.DefaultBuiltin)
	require.NoError(t, err)
	ids := c.IDs()

	var walk func(i int, s mapScores)
	walk = func(i int, s mapScores) {
		if i == len(ids) {
			total := ComputeTotal(c, s)
			require.GreaterOrEqual(t, total, 0.0)
			require.LessOrEqual(t, total, 100.0)
			for _, id := range ids {
				if s[id] == rubric.MaxScore {
					continue
				}
				bumped := mapScores{}
				for k, v := range s {
					bumped[k] = v
				}
				bumped[id]++
				require.GreaterOrEqual(t, ComputeTotal(c, bumped), total, "raising %s lowered the total", id)
			}
			return
		}
		for v := rubric.MinScore; v <= rubric.MaxScore; v++ {
			s[ids[i]] = v
			walk(i+1, s)
		}
		delete(s, ids[i])
	}
	walk(0, mapScores{})
}
