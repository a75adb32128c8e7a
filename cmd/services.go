package cmd

import (
	"fmt"

	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/service"
)

// appServices bundles the long-lived service objects every command wires up.
// They are constructed once at process start and passed by reference into
// each pipeline call; there is no ambient lookup.
type appServices struct {
	cfg         *config.Config
	generator   service.Generator
	embedder    service.Embedder
	extractor   service.Extractor // nil when the provider has no multimodal support
	store       *database.WeaviateStore
	archive     repository.ArchiveRepo // nil when MONGODB_URI is unset
	structuring *service.StructuringService
	ingest      *service.IngestService
	answer      *service.AnswerService
	files       *service.FileService
}

func buildServices(configPath string) (*appServices, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &appServices{cfg: cfg}

	switch cfg.AIConfig.Provider {
	case "gemini":
		gemini, err := service.NewGeminiService(
			cfg.AIConfig.GeminiAPIKeys,
			cfg.AIConfig.Model,
			cfg.EmbeddingConfig.Model,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
		}
		app.generator = gemini
		app.embedder = gemini
		app.extractor = gemini
	case "openai":
		openaiSvc := service.NewOpenAIService(
			cfg.AIConfig.OpenAIEndpoint,
			cfg.AIConfig.OpenAIAPIKey,
			cfg.AIConfig.Model,
			cfg.EmbeddingConfig.Model,
		)
		app.generator = openaiSvc
		app.embedder = openaiSvc
		// Voice and photo extraction still go through Gemini when keys exist.
		if len(cfg.AIConfig.GeminiAPIKeys) > 0 {
			gemini, err := service.NewGeminiService(
				cfg.AIConfig.GeminiAPIKeys,
				"gemini-1.5-flash",
				cfg.EmbeddingConfig.Model,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize Gemini extractor: %w", err)
			}
			app.extractor = gemini
		}
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AIConfig.Provider)
	}

	app.store, err = database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Weaviate: %w", err)
	}

	if cfg.MongoURI != "" {
		client, err := database.NewMongoClient(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		collection := client.Database("secondbrain").Collection("archive")
		app.archive = repository.NewArchiveRepo(collection)
	}

	app.structuring, err = service.NewStructuringService(app.generator, cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	app.answer, err = service.NewAnswerService(
		app.embedder,
		app.store,
		app.generator,
		cfg.PromptDir,
		cfg.RetrievalConfig.TopK,
		cfg.RetrievalConfig.MinSimilarity,
	)
	if err != nil {
		return nil, err
	}
	app.ingest = service.NewIngestService(
		app.structuring,
		app.embedder,
		app.store,
		app.archive,
		cfg.EmbeddingConfig.IncludeTags,
	)
	app.files = service.NewFileService(cfg.UploadDir, app.extractor)
	return app, nil
}
