package ai

import (
	"strings"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

// entityResponse captures the structured output from the entity model.
type entityResponse struct {
	Entities []struct {
		// Text is the span exactly as it appears in the input.
		Text string `json:"text"`

		// Types lists candidate labels, most likely first.
		Types []string `json:"types"`
	} `json:"entities"`
}

// entityTypeFromLabel maps labels from both extractors onto intent entity types.
// Every place-like label collapses to the single address type.
func entityTypeFromLabel(label string) intent.EntityType {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ADDRESS", "LOCATION", "CITY", "COUNTRY", "REGION", "GPE", "LOC", "FAC":
		return intent.EntityAddress
	default:
		return intent.EntityOther
	}
}
