package ai

import "encoding/json"

const translateSystemPrompt = `You are a Japanese to English translator for language learners.
Reply with the English translation only, without notes or quotes.`

const extractSystemPrompt = `From the Japanese text the user sends, extract key phrases and vocabulary
together with their English translations. Format them as question-answer pairs suitable for
flashcards: the question is the original Japanese phrase, the answer its English translation.`

// phrasesJSONSchema is the strict output schema for phrase extraction.
var phrasesJSONSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"phrases": {
			Type: "array",
			Items: &jsonSchema{
				Type: "object",
				Properties: map[string]*jsonSchema{
					"question": {Type: "string", Description: "The original Japanese phrase or vocabulary word."},
					"answer":   {Type: "string", Description: "The English translation of the Japanese phrase."},
				},
				Required: []string{"question", "answer"},
			},
		},
	},
	Required: []string{"phrases"},
}

// jsonSchema is the subset of JSON Schema accepted by structured outputs.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	out := *s
	if out.Type == "object" && out.AdditionalProperties == nil {
		no := false
		out.AdditionalProperties = &no
	}
	return json.Marshal((*alias)(&out))
}
