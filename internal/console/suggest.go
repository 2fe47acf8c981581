package console

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestionLimit is the largest edit distance still worth suggesting for a
// candidate of the given length.
func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest returns the candidate closest to token. A candidate that token is
// a prefix of wins over edit distance. Ties go to the alphabetically first
// candidate.
func Suggest(token string, candidates []string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", false
	}

	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	best, bestDist := "", -1
	for _, cand := range sorted {
		c := strings.ToLower(cand)
		if c == token {
			return cand, true
		}
		if len(token) >= 2 && strings.HasPrefix(c, token) {
			return cand, true
		}

		dist := levenshtein.ComputeDistance(token, c)
		if dist > suggestionLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}

	return best, bestDist >= 0
}

func unknownMessage(kind, token string, candidates []string) string {
	if s, ok := Suggest(token, candidates); ok {
		return "Unknown " + kind + " \"" + token + "\". Did you mean \"" + s + "\"?"
	}
	return "Unknown " + kind + " \"" + token + "\"."
}
