// Package extract recovers structured JSON from AI completions. Models are
// prompted for bare JSON but routinely wrap it in markdown fences or
// surrounding prose, so extraction tolerates both.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// greedy: first '[' through last ']', so nested arrays inside objects stay
// intact
var arrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// Array unmarshals a JSON array out of model output into v. It tries, in
// order: fenced code block content, the whole payload, and the widest
// bracketed span. A fenced array and the same array bare decode identically.
func Array(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return resilience.NewParseError("empty response", "")
	}

	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	if m := arrayRe.FindString(s); m != "" {
		if err := json.Unmarshal([]byte(m), v); err != nil {
			return eris.Wrap(resilience.NewParseError("malformed JSON array in response", m), "extract")
		}
		return nil
	}

	return eris.Wrap(resilience.NewParseError("no JSON array found in response", s), "extract")
}
