package api

import (
	"net/http"

	"council-rag/internal/domain"
	"council-rag/internal/usecase"
	"council-rag/internal/usecase/temporal"

	"github.com/labstack/echo/v4"
)

// Handler exposes the chat surface of the service.
type Handler struct {
	answerUsecase usecase.AnswerUsecase
	chunkRepo     domain.MinuteChunkRepository
}

// NewHandler wires the HTTP handler to its usecases.
func NewHandler(answerUsecase usecase.AnswerUsecase, chunkRepo domain.MinuteChunkRepository) *Handler {
	return &Handler{
		answerUsecase: answerUsecase,
		chunkRepo:     chunkRepo,
	}
}

// RegisterRoutes attaches the handler to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/years", h.Years)
	e.GET("/v1/health", h.Health)
}

// ChatRequest is the JSON body accepted by POST /v1/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	MaxChunks *int   `json:"max_chunks,omitempty"`
	MaxTokens *int   `json:"max_tokens,omitempty"`
}

// SourceResponse is one retrieved excerpt surfaced to the client.
type SourceResponse struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename,omitempty"`
	Page     *int    `json:"page,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Excerpt  string  `json:"excerpt"`
	Score    float64 `json:"score"`
}

// ChatResponse is the JSON body returned by POST /v1/chat. The
// search_metadata record is the ranking diagnostics surfaced verbatim.
type ChatResponse struct {
	Answer         string                  `json:"answer"`
	Sources        []SourceResponse        `json:"sources"`
	SearchMetadata temporal.SearchMetadata `json:"search_metadata"`
	Fallback       bool                    `json:"fallback"`
	Reason         string                  `json:"reason,omitempty"`
	AnswerID       string                  `json:"answer_id"`
	PromptVersion  string                  `json:"prompt_version"`
}

// Chat answers a question grounded on the council-minute corpus.
// (POST /v1/chat)
func (h *Handler) Chat(ctx echo.Context) error {
	var req ChatRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Message == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	input := usecase.AnswerInput{Query: req.Message}
	if req.MaxChunks != nil {
		input.MaxChunks = *req.MaxChunks
	}
	if req.MaxTokens != nil {
		input.MaxTokens = *req.MaxTokens
	}

	output, err := h.answerUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	sources := make([]SourceResponse, 0, len(output.Sources))
	for _, s := range output.Sources {
		sources = append(sources, SourceResponse{
			ChunkID:  s.ChunkID,
			Filename: s.Filename,
			Page:     s.Page,
			Year:     s.Year,
			Excerpt:  s.Excerpt,
			Score:    s.Score,
		})
	}

	return ctx.JSON(http.StatusOK, ChatResponse{
		Answer:         output.Answer,
		Sources:        sources,
		SearchMetadata: output.Metadata,
		Fallback:       output.Fallback,
		Reason:         output.Reason,
		AnswerID:       output.AnswerID,
		PromptVersion:  output.PromptVersion,
	})
}

// Years lists the document years present in the corpus, as a
// diagnostics aid for year-scoped queries.
// (GET /v1/years)
func (h *Handler) Years(ctx echo.Context) error {
	years, err := h.chunkRepo.ListYears(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if years == nil {
		years = []int{}
	}
	return ctx.JSON(http.StatusOK, map[string][]int{"years": years})
}

// Health reports liveness.
// (GET /v1/health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
