package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_FollowsPriorityOrder(t *testing.T) {
	for i, c := range Categories {
		assert.Equal(t, i, Rank(c), "rank of %s", c)
	}
	assert.Less(t, Rank(CategoryLegacy), Rank(CategoryTest))
	assert.Equal(t, len(Categories), Rank(Category("mystery")))
}

func TestSummarize_CountsMatchRecords(t *testing.T) {
	projects := []Project{
		{Name: "a", Category: CategoryDuendes, Status: StatusLive},
		{Name: "b", Category: CategoryDuendes, Status: StatusDown},
		{Name: "c", Category: CategoryTest, Status: StatusLive},
		{Name: "d", Category: Category("mystery"), Status: StatusDown},
	}

	s := Summarize(projects)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Live)
	assert.Equal(t, 2, s.Down)
	assert.Equal(t, 2, s.ByCategory[CategoryDuendes])
	assert.Equal(t, 1, s.ByCategory[CategoryTest])
	assert.Equal(t, 0, s.ByCategory[CategoryCastle])
	assert.Len(t, s.ByCategory, len(Categories))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	for _, c := range Categories {
		n, ok := s.ByCategory[c]
		assert.True(t, ok)
		assert.Zero(t, n)
	}
}

func TestSummary_MarshalsFlat(t *testing.T) {
	s := Summarize([]Project{{Name: "alpha", Category: CategoryTest, Status: StatusLive}})

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var flat map[string]int
	require.NoError(t, json.Unmarshal(b, &flat))
	assert.Equal(t, map[string]int{
		"total": 1, "live": 1, "down": 0,
		"duendes": 0, "castle": 0, "expat": 0, "client": 0, "legacy": 0, "test": 1,
	}, flat)

	var back Summary
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}
