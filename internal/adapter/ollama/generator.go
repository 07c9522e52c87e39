package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"council-rag/internal/domain"
)

const generationTemperature = 0.2

// generationFormat constrains the model output to the JSON shape the
// output validator expects.
var generationFormat = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"answer": map[string]interface{}{
			"type": "string",
		},
		"citations": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"chunk_id": map[string]interface{}{"type": "string"},
					"filename": map[string]interface{}{"type": "string"},
					"page":     map[string]interface{}{"type": "integer"},
				},
				"required": []string{"chunk_id"},
			},
		},
		"fallback": map[string]interface{}{
			"type": "boolean",
		},
		"reason": map[string]interface{}{
			"type": "string",
		},
	},
	"required": []string{"answer", "citations", "fallback", "reason"},
}

type chatRequest struct {
	Model     string                 `json:"model"`
	Messages  []domain.Message       `json:"messages"`
	Stream    bool                   `json:"stream"`
	KeepAlive int                    `json:"keep_alive"`
	Format    map[string]interface{} `json:"format"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Generator sends chat prompts to Ollama and returns structured text.
type Generator struct {
	BaseURL string
	Model   string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewGenerator constructs a generator using the provided endpoint and
// model name.
func NewGenerator(baseURL, model string, client *http.Client, logger *slog.Logger) *Generator {
	return &Generator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
		Logger:  logger,
	}
}

// Generate sends the messages to Ollama and returns the assistant reply.
func (g *Generator) Generate(ctx context.Context, messages []domain.Message, maxTokens int) (*domain.LLMResponse, error) {
	reqBody := chatRequest{
		Model:     g.Model,
		Messages:  messages,
		Stream:    false,
		KeepAlive: -1,
		Format:    generationFormat,
		Options: map[string]interface{}{
			"temperature": generationTemperature,
		},
	}
	if maxTokens > 0 {
		reqBody.Options["num_predict"] = maxTokens
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	start := time.Now()
	url := fmt.Sprintf("%s/api/chat", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	g.Logger.Info("ollama_generation_completed",
		slog.String("model", g.Model),
		slog.Bool("done", chatResp.Done),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &domain.LLMResponse{
		Text: strings.TrimSpace(chatResp.Message.Content),
		Done: chatResp.Done,
	}, nil
}

func (g *Generator) Version() string {
	return g.Model
}

var _ domain.LLMClient = (*Generator)(nil)
