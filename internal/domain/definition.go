package domain

import "math"

// MaxInputLength is the longest text, in characters, accepted for a lookup or prompt
const MaxInputLength = 500

// DefinitionRequest is the body of POST /define
type DefinitionRequest struct {
	Text    string `json:"text"`
	UseMock bool   `json:"use_mock"`
}

// Example is a usage sentence with a short context note
type Example struct {
	Sentence string `json:"sentence"`
	Context  string `json:"context"`
}

// Synonym is a related word with a similarity level (high/medium/low)
type Synonym struct {
	Word       string `json:"word"`
	Similarity string `json:"similarity"`
}

// DefinitionResponse is the definition payload returned by POST /define
type DefinitionResponse struct {
	Word         string    `json:"word"`
	PartOfSpeech string    `json:"part_of_speech"`
	Definition   string    `json:"definition"`
	Examples     []Example `json:"examples"`
	Synonyms     []Synonym `json:"synonyms"`
	Confidence   float64   `json:"confidence"`

	// Unscored is set when the backend contract carries no confidence score
	Unscored bool `json:"-"`
}

// ConfidencePercent returns confidence rounded to a whole percentage
func (d DefinitionResponse) ConfidencePercent() int {
	return int(math.Round(d.Confidence * 100))
}

// TermDefinition is the payload of the v1 contract (POST /api/v1/define)
type TermDefinition struct {
	Term         string   `json:"term"`
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Examples     []string `json:"examples"`
	Synonyms     []string `json:"synonyms"`
}

// TermRequest is the body of POST /api/v1/define
type TermRequest struct {
	Input string `json:"input"`
}

// PromptRequest is the body of the joke and caption generators
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// Joke is returned by POST /jokes/generate
type Joke struct {
	Joke string `json:"joke"`
}

// Caption is returned by POST /captions/generate
type Caption struct {
	Caption string `json:"caption"`
}

// Health is returned by GET /health
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// APIError is the error body returned by the dictionary API
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
