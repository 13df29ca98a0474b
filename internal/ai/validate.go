package ai

import (
	"encoding/json"
	"strings"
)

// cleanFences removes surrounding markdown code blocks if present
// (language-tagged like ```json or bare ```).
func cleanFences(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

// ParseRecommendations validates raw model output against the documented
// schema. The parse is all-or-nothing: the payload must be a JSON array of
// objects or ok is false and the caller falls back to treating the raw text
// as a plain conversational reply.
func ParseRecommendations(raw string) ([]Recommendation, bool) {
	clean := cleanFences(raw)
	// json.Unmarshal would also accept "null" into a nil slice; the payload
	// must literally be an array.
	if clean == "" || clean[0] != '[' {
		return nil, false
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(clean), &recs); err != nil {
		return nil, false
	}
	return recs, true
}
