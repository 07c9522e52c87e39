package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"council-rag/internal/domain"
	"council-rag/internal/usecase/temporal"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// AnswerInput encapsulates the parameters that drive one answer request.
type AnswerInput struct {
	Query     string
	MaxChunks int
	MaxTokens int
}

// Source describes one retrieved excerpt surfaced alongside the answer.
type Source struct {
	ChunkID  string
	Filename string
	Page     *int
	Year     *int
	Excerpt  string
	Score    float64
}

// AnswerOutput represents the normalized answer response returned to
// API clients.
type AnswerOutput struct {
	Answer        string
	Sources       []Source
	Metadata      temporal.SearchMetadata
	Fallback      bool
	Reason        string
	AnswerID      string
	PromptVersion string
}

// AnswerUsecase defines the contract for generating grounded answers.
type AnswerUsecase interface {
	Execute(ctx context.Context, input AnswerInput) (*AnswerOutput, error)
}

type answerUsecase struct {
	retrieve      RetrieveContextUsecase
	promptBuilder PromptBuilder
	llmClient     domain.LLMClient
	validator     OutputValidator
	maxChunks     int
	maxTokens     int
	promptVersion string
	logger        *slog.Logger
	cache         *expirable.LRU[string, *AnswerOutput]
}

// AnswerOption customizes the answer usecase.
type AnswerOption func(*answerUsecase)

// WithAnswerCache enables an expiring LRU keyed on the normalized query
// so repeated questions skip retrieval and generation entirely.
func WithAnswerCache(size int, ttl time.Duration) AnswerOption {
	return func(u *answerUsecase) {
		if size > 0 {
			u.cache = expirable.NewLRU[string, *AnswerOutput](size, nil, ttl)
		}
	}
}

// NewAnswerUsecase wires together the components needed to generate a
// grounded answer.
func NewAnswerUsecase(
	retrieve RetrieveContextUsecase,
	promptBuilder PromptBuilder,
	llmClient domain.LLMClient,
	validator OutputValidator,
	maxChunks, maxTokens int,
	promptVersion string,
	logger *slog.Logger,
	opts ...AnswerOption,
) AnswerUsecase {
	u := &answerUsecase{
		retrieve:      retrieve,
		promptBuilder: promptBuilder,
		llmClient:     llmClient,
		validator:     validator,
		maxChunks:     maxChunks,
		maxTokens:     maxTokens,
		promptVersion: promptVersion,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *answerUsecase) Execute(ctx context.Context, input AnswerInput) (*AnswerOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	if u.cache != nil {
		if cached, ok := u.cache.Get(query); ok {
			u.logger.Info("answer_cache_hit", slog.String("answer_id", cached.AnswerID))
			return cached, nil
		}
	}

	answerID := uuid.NewString()

	maxChunks := input.MaxChunks
	if maxChunks <= 0 {
		maxChunks = u.maxChunks
	}
	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = u.maxTokens
	}

	retrieved, err := u.retrieve.Execute(ctx, RetrieveContextInput{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	chunks := retrieved.Chunks
	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	sources := buildSources(chunks)

	if len(chunks) == 0 {
		u.logger.Warn("no_context_for_query", slog.String("answer_id", answerID))
		return u.prepareFallback(answerID, sources, retrieved.Metadata, "no context returned from retrieval"), nil
	}

	messages, err := u.buildMessages(query, chunks)
	if err != nil {
		u.logger.Warn("prompt_build_failed",
			slog.String("answer_id", answerID),
			slog.String("error", err.Error()))
		return u.prepareFallback(answerID, sources, retrieved.Metadata, err.Error()), nil
	}

	llmResp, err := u.llmClient.Generate(ctx, messages, maxTokens)
	if err != nil {
		return u.prepareFallback(answerID, sources, retrieved.Metadata, fmt.Sprintf("llm generation failed: %v", err)), nil
	}
	if llmResp == nil || strings.TrimSpace(llmResp.Text) == "" {
		u.logger.Warn("llm_returned_empty_response",
			slog.String("answer_id", answerID),
			slog.Int("context_count", len(chunks)))
		return u.prepareFallback(answerID, sources, retrieved.Metadata, "empty llm response"), nil
	}
	if !llmResp.Done {
		u.logger.Warn("llm_response_incomplete", slog.String("answer_id", answerID))
		return u.prepareFallback(answerID, sources, retrieved.Metadata, "llm response incomplete"), nil
	}

	parsed, err := u.validator.Validate(llmResp.Text, chunks)
	if err != nil {
		u.logger.Warn("llm_response_validation_failed",
			slog.String("answer_id", answerID),
			slog.String("error", err.Error()))
		return u.prepareFallback(answerID, sources, retrieved.Metadata, fmt.Sprintf("validation failed: %v", err)), nil
	}
	if parsed.Fallback || strings.TrimSpace(parsed.Answer) == "" {
		reason := parsed.Reason
		if reason == "" {
			reason = "model signaled fallback"
		}
		return u.prepareFallback(answerID, sources, retrieved.Metadata, reason), nil
	}

	output := &AnswerOutput{
		Answer:        strings.TrimSpace(parsed.Answer),
		Sources:       sources,
		Metadata:      retrieved.Metadata,
		Fallback:      false,
		Reason:        "",
		AnswerID:      answerID,
		PromptVersion: u.promptVersion,
	}

	if u.cache != nil {
		u.cache.Add(query, output)
	}

	return output, nil
}

func (u *answerUsecase) buildMessages(query string, chunks []domain.Chunk) ([]domain.Message, error) {
	promptContexts := make([]PromptContext, len(chunks))
	for i, c := range chunks {
		promptContexts[i] = PromptContext{
			ChunkID:  c.ID.String(),
			Filename: c.Filename,
			Page:     c.Page,
			Year:     c.Year,
			Score:    c.RankScore(),
			Excerpt:  c.Text,
		}
	}

	messages, err := u.promptBuilder.Build(PromptInput{
		Query:         query,
		PromptVersion: u.promptVersion,
		Contexts:      promptContexts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}
	return messages, nil
}

func (u *answerUsecase) prepareFallback(answerID string, sources []Source, metadata temporal.SearchMetadata, reason string) *AnswerOutput {
	return &AnswerOutput{
		Answer:        "",
		Sources:       sources,
		Metadata:      metadata,
		Fallback:      true,
		Reason:        reason,
		AnswerID:      answerID,
		PromptVersion: u.promptVersion,
	}
}

func buildSources(chunks []domain.Chunk) []Source {
	sources := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, Source{
			ChunkID:  c.ID.String(),
			Filename: c.Filename,
			Page:     c.Page,
			Year:     c.Year,
			Excerpt:  c.Text,
			Score:    c.RankScore(),
		})
	}
	return sources
}
