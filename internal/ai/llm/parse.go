package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// ParseLaborHours reads {"hours": n} from model output. A null or missing
// value yields nil without error; a negative value is invalid.
func ParseLaborHours(text string) (*float64, error) {
	var out struct {
		Hours *float64 `json:"hours"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Hours != nil && *out.Hours < 0 {
		return nil, fmt.Errorf("%w: negative hours %v", ErrInvalidResponse, *out.Hours)
	}
	return out.Hours, nil
}

// ParseCategories reads checklist categories from model output. Both
// {"categories": [...]} and a bare array are accepted. Blank items are dropped.
func ParseCategories(text string) ([]models.InspectionCategory, error) {
	raw := extractJSON(text)

	var categories []models.InspectionCategory
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &categories); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	} else {
		var wrapped struct {
			Categories []models.InspectionCategory `json:"categories"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		categories = wrapped.Categories
	}

	out := make([]models.InspectionCategory, 0, len(categories))
	for _, c := range categories {
		c.Title = strings.TrimSpace(c.Title)
		items := make([]string, 0, len(c.Items))
		for _, it := range c.Items {
			if it = strings.TrimSpace(it); it != "" {
				items = append(items, it)
			}
		}
		c.Items = items
		out = append(out, c)
	}
	return out, nil
}

// extractJSON strips markdown code fences and any prose around the first
// JSON object or array in s.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}
