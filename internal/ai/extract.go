package ai

import (
	"encoding/json"
	"regexp"
)

// Completions wrap the JSON payload in prose; grab the outermost brace
// span and validate it.
var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls the first JSON object out of a free-text completion
// and unmarshals it into v. Returns false when no valid object is found;
// callers substitute their fallback value.
func ExtractJSON(completion string, v any) bool {
	match := jsonSpan.FindString(completion)
	if match == "" {
		return false
	}
	return json.Unmarshal([]byte(match), v) == nil
}
