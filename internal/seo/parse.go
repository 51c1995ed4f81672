package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuwenliu/ytman/internal/catalog"
)

// parseDraft decodes a generator response into a validated draft. The model
// is asked for raw JSON but sometimes wraps it in a markdown code fence; both
// shapes are accepted. Anything else is a generation failure for the item.
func parseDraft(response string) (*catalog.MetadataDraft, error) {
	payload := stripCodeFence(response)

	var draft catalog.MetadataDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("generator returned malformed JSON: %w", err)
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("generator output incomplete: %w", err)
	}
	return &draft, nil
}

// stripCodeFence removes a surrounding ``` / ```json fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 3 {
		return s
	}
	body := lines[1 : len(lines)-1]
	out := strings.TrimSpace(strings.Join(body, "\n"))
	out = strings.TrimPrefix(out, "json")
	return strings.TrimSpace(out)
}
