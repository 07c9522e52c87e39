package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"council-rag/internal/adapter/ollama"
	"council-rag/internal/adapter/repository"
	"council-rag/internal/domain"
	"council-rag/internal/infra/config"
	"council-rag/internal/infra/httpclient"
	"council-rag/internal/usecase"
	"council-rag/internal/usecase/temporal"
)

// ApplicationComponents holds all wired dependencies for the service.
type ApplicationComponents struct {
	ChunkRepo domain.MinuteChunkRepository

	RetrieveUsecase usecase.RetrieveContextUsecase
	AnswerUsecase   usecase.AnswerUsecase
}

// NewApplicationComponents wires all dependencies from config and
// database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	chunkRepo := repository.NewMinuteChunkRepository(pool)

	// Shared HTTP clients with connection pooling
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.EmbedderTimeout) * time.Second)
	generatorHTTP := httpclient.NewPooledClient(time.Duration(cfg.GeneratorTimeout) * time.Second)

	embedder := ollama.NewEmbedder(cfg.EmbedderURL, cfg.EmbeddingModel, embedderHTTP)
	generator := ollama.NewGenerator(cfg.GeneratorURL, cfg.GeneratorModel, generatorHTTP, log)

	temporalCfg := temporal.Config{
		Weight:          cfg.TemporalWeight,
		Tolerance:       cfg.YearTolerance,
		EnableFiltering: cfg.TemporalFiltering,
		EnableWeighting: cfg.TemporalWeighting,
	}

	retrieveUsecase, err := usecase.NewRetrieveContextUsecase(
		chunkRepo, embedder, cfg.SearchLimit, temporalCfg, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieve usecase: %w", err)
	}

	promptBuilder := usecase.NewXMLPromptBuilder()
	answerUsecase := usecase.NewAnswerUsecase(
		retrieveUsecase, promptBuilder, generator, usecase.NewOutputValidator(),
		cfg.AnswerMaxChunks, cfg.AnswerMaxTokens, cfg.PromptVersion, log,
		usecase.WithAnswerCache(cfg.CacheSize, time.Duration(cfg.CacheTTLMinutes)*time.Minute),
	)

	log.Info("components_wired",
		slog.String("embedding_model", cfg.EmbeddingModel),
		slog.String("generator_model", cfg.GeneratorModel),
		slog.Float64("temporal_weight", cfg.TemporalWeight),
		slog.Int("year_tolerance", cfg.YearTolerance),
		slog.Bool("temporal_filtering", cfg.TemporalFiltering),
		slog.Bool("temporal_weighting", cfg.TemporalWeighting))

	return &ApplicationComponents{
		ChunkRepo:       chunkRepo,
		RetrieveUsecase: retrieveUsecase,
		AnswerUsecase:   answerUsecase,
	}, nil
}
