package lookup

import (
	"fmt"

	"lexibot/internal/domain"
)

// MockDefinition fabricates a deterministic payload for term without any network call
func MockDefinition(term string) *domain.DefinitionResponse {
	return &domain.DefinitionResponse{
		Word:         term,
		PartOfSpeech: "noun",
		Definition:   "A concise, structured explanation generated in mock mode for demonstration purposes.",
		Examples: []domain.Example{
			{
				Sentence: fmt.Sprintf("The term %q is used frequently in modern AI discussions.", term),
				Context:  "Everyday usage",
			},
			{
				Sentence: fmt.Sprintf("Researchers defined %q in multiple ways.", term),
				Context:  "Academic writing",
			},
			{
				Sentence: fmt.Sprintf("Understanding %q improves product clarity.", term),
				Context:  "Product design",
			},
		},
		Synonyms: []domain.Synonym{
			{Word: "concept", Similarity: "high"},
			{Word: "notion", Similarity: "medium"},
			{Word: "idea", Similarity: "medium"},
			{Word: "term", Similarity: "low"},
			{Word: "expression", Similarity: "low"},
		},
		Confidence: 0.95,
	}
}
