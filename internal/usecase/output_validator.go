package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"council-rag/internal/domain"
)

// OutputValidator ensures the LLM output follows the expected structure
// and only cites retrieved chunks.
type OutputValidator struct{}

// NewOutputValidator creates a validator instance (currently stateless).
func NewOutputValidator() OutputValidator {
	return OutputValidator{}
}

// Validate parses and checks the JSON output emitted by the LLM.
func (v OutputValidator) Validate(raw string, contexts []domain.Chunk) (*LLMAnswer, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("llm response is empty")
	}

	var answer LLMAnswer
	if err := json.Unmarshal([]byte(trimmed), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse llm response: %w", err)
	}

	if len(answer.Citations) == 0 && !answer.Fallback {
		return nil, errors.New("missing citations in response")
	}

	if len(contexts) > 0 {
		allowed := make(map[string]struct{}, len(contexts))
		for _, c := range contexts {
			allowed[c.ID.String()] = struct{}{}
		}
		for _, cite := range answer.Citations {
			if cite.ChunkID == "" {
				return nil, errors.New("citation missing chunk_id")
			}
			if _, ok := allowed[cite.ChunkID]; !ok {
				return nil, fmt.Errorf("citation references unknown chunk %s", cite.ChunkID)
			}
		}
	}

	return &answer, nil
}

// LLMAnswer models the JSON output the prompt format section enforces.
type LLMAnswer struct {
	Answer    string        `json:"answer"`
	Citations []LLMCitation `json:"citations"`
	Fallback  bool          `json:"fallback"`
	Reason    string        `json:"reason"`
}

// LLMCitation declares a chunk referenced in the final answer.
type LLMCitation struct {
	ChunkID  string `json:"chunk_id"`
	Filename string `json:"filename"`
	Page     *int   `json:"page"`
}
