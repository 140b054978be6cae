// Package match suggests mapping declarations for DTO structs that carry no
// `map` tags, by pairing each DTO field with the most similar entity field.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores type compatibility using go/types
//   - RankCandidates: ranks the entity fields a DTO field could map to
//   - Suggest: builds a model declaration from the best candidates
package match
