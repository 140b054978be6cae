package match

import (
	"cmp"
	"slices"

	"field-mapper/internal/analyze"
)

// Candidate is an entity field a DTO field could map to.
type Candidate struct {
	Entity *analyze.FieldInfo

	NameScore  float64           // Similarity of the Go field names (0-1)
	TypeCompat TypeCompatibility // How the DTO type relates to the entity type

	// Score combines both for ranking (higher is better).
	Score float64
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// RankCandidates scores every exported entity field against a DTO field.
func RankCandidates(dto *analyze.FieldInfo, entityFields []analyze.FieldInfo) CandidateList {
	candidates := make(CandidateList, 0, len(entityFields))

	for i := range entityFields {
		entity := &entityFields[i]
		if !entity.Exported {
			continue
		}

		nameScore := NameScore(dto.Name, entity.Name)

		compat := TypeIncompatible
		if dto.Type != nil && dto.Type.GoType != nil && entity.Type != nil && entity.Type.GoType != nil {
			compat = ScoreTypeCompatibility(dto.Type.GoType, entity.Type.GoType)
		}

		candidates = append(candidates, Candidate{
			Entity:     entity,
			NameScore:  nameScore,
			TypeCompat: compat,
			Score:      combinedScore(nameScore, compat),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Entity.Name, b.Entity.Name)
	})

	return candidates
}

// combinedScore weighs name similarity at 60% and type compatibility at 40%.
func combinedScore(nameScore float64, compat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	return nameScore*nameWeight + compat.weight()*typeWeight
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// HighConfidence returns the best candidate if it reaches minScore, has a
// usable type, and leads the runner-up by at least minGap.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	best := c.Best()
	if best == nil || best.Score < minScore || best.TypeCompat < TypeNeedsTransform {
		return nil
	}

	if c.IsAmbiguous(minGap) {
		return nil
	}

	return best
}
