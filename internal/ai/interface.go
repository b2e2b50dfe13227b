// README: Entity extractors behind intent.EntityExtractor (Gemini, prose, cached).
package ai

import (
	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

// Every extractor here can be handed to intent.NewParser.
var (
	_ intent.EntityExtractor = (*GeminiExtractor)(nil)
	_ intent.EntityExtractor = (*ProseExtractor)(nil)
	_ intent.EntityExtractor = (*CachingExtractor)(nil)
)
