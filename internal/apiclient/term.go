package apiclient

import (
	"context"

	"lexibot/internal/domain"
)

// TermDefiner serves definition requests from a backend that speaks the v1
// contract. The v1 payload is mapped onto DefinitionResponse field by field:
// term becomes word, each example string becomes an Example with no context,
// each synonym string becomes a Synonym with no similarity, and the result is
// marked Unscored because v1 reports no confidence.
type TermDefiner struct {
	client *Client
}

// NewTermDefiner wraps client for the v1 contract
func NewTermDefiner(client *Client) *TermDefiner {
	return &TermDefiner{client: client}
}

// Define looks up req.Text via POST /api/v1/define. req.UseMock is not part of
// the v1 contract and is ignored here; mock mode never reaches the network.
func (d *TermDefiner) Define(ctx context.Context, req domain.DefinitionRequest) (*domain.DefinitionResponse, error) {
	term, err := d.client.DefineTerm(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return FromTerm(term), nil
}

// FromTerm converts a v1 definition into the standard payload
func FromTerm(t *domain.TermDefinition) *domain.DefinitionResponse {
	out := &domain.DefinitionResponse{
		Word:         t.Term,
		PartOfSpeech: t.PartOfSpeech,
		Definition:   t.Definition,
		Examples:     make([]domain.Example, 0, len(t.Examples)),
		Synonyms:     make([]domain.Synonym, 0, len(t.Synonyms)),
		Unscored:     true,
	}
	for _, s := range t.Examples {
		out.Examples = append(out.Examples, domain.Example{Sentence: s})
	}
	for _, s := range t.Synonyms {
		out.Synonyms = append(out.Synonyms, domain.Synonym{Word: s})
	}
	return out
}
