package match

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-mapper/internal/analyze"
)

func field(name string, t types.Type) analyze.FieldInfo {
	return analyze.FieldInfo{
		Name:     name,
		Exported: true,
		Type:     &analyze.TypeInfo{Kind: analyze.TypeKindBasic, GoType: t},
	}
}

func names(c CandidateList) []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Entity.Name
	}

	return out
}

func TestRankCandidates(t *testing.T) {
	dto := field("CreatedAt", types.Typ[types.Int64])

	hidden := field("createdAt", types.Typ[types.Int64])
	hidden.Exported = false

	entity := []analyze.FieldInfo{
		field("CreatedBy", types.Typ[types.String]),
		field("UpdatedAt", types.Typ[types.Int64]),
		hidden,
		field("Created", types.Typ[types.Int64]),
	}

	candidates := RankCandidates(&dto, entity)
	require.Len(t, candidates, 3)
	assert.Equal(t, []string{"Created", "UpdatedAt", "CreatedBy"}, names(candidates))

	best := candidates.Best()
	assert.InDelta(t, 1.0, best.NameScore, 1e-9)
	assert.Equal(t, TypeIdentical, best.TypeCompat)
	assert.InDelta(t, 1.0, best.Score, 1e-9)

	assert.InDelta(t, 0.8, candidates[1].Score, 1e-9)
	assert.Equal(t, TypeIncompatible, candidates[2].TypeCompat)
}

func TestRankCandidates_TiesByName(t *testing.T) {
	dto := field("Code", types.Typ[types.String])
	entity := []analyze.FieldInfo{
		field("Node", types.Typ[types.String]),
		field("Mode", types.Typ[types.String]),
	}

	assert.Equal(t, []string{"Mode", "Node"}, names(RankCandidates(&dto, entity)))
}

func TestRankCandidates_MissingTypes(t *testing.T) {
	dto := analyze.FieldInfo{Name: "Total", Exported: true}
	entity := []analyze.FieldInfo{field("Total", types.Typ[types.Int])}

	candidates := RankCandidates(&dto, entity)
	require.Len(t, candidates, 1)
	assert.Equal(t, TypeIncompatible, candidates[0].TypeCompat)
	assert.InDelta(t, 0.6, candidates[0].Score, 1e-9)
}

func TestCandidateList_HighConfidence(t *testing.T) {
	dto := field("CreatedAt", types.Typ[types.Int64])
	candidates := RankCandidates(&dto, []analyze.FieldInfo{
		field("Created", types.Typ[types.Int64]),
		field("UpdatedAt", types.Typ[types.Int64]),
	})

	tests := []struct {
		name     string
		minScore float64
		minGap   float64
		expected string
	}{
		{"clear winner", 0.5, 0.1, "Created"},
		{"gap too small", 0.5, 0.25, ""},
		{"score too low", 1.1, 0.1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := candidates.HighConfidence(tt.minScore, tt.minGap)
			if tt.expected == "" {
				assert.Nil(t, best)
				return
			}

			require.NotNil(t, best)
			assert.Equal(t, tt.expected, best.Entity.Name)
		})
	}

	assert.False(t, candidates.IsAmbiguous(0.1))
	assert.True(t, candidates.IsAmbiguous(0.25))
}

func TestCandidateList_IncompatibleBest(t *testing.T) {
	dto := field("Total", types.Typ[types.String])
	candidates := RankCandidates(&dto, []analyze.FieldInfo{field("Total", types.Typ[types.Bool])})

	assert.NotNil(t, candidates.Best())
	assert.Nil(t, candidates.HighConfidence(0.5, 0.1))
}

func TestCandidateList_Empty(t *testing.T) {
	var candidates CandidateList

	assert.Nil(t, candidates.Best())
	assert.False(t, candidates.IsAmbiguous(0.1))
	assert.Nil(t, candidates.HighConfidence(0, 0))
}
