// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Halcy0nic/Uplest/internal/config"
	"github.com/Halcy0nic/Uplest/internal/core"
	db "github.com/Halcy0nic/Uplest/internal/core/database"
	"github.com/Halcy0nic/Uplest/internal/core/ingestion_engine"
	"github.com/Halcy0nic/Uplest/internal/core/llm"
	objectclient "github.com/Halcy0nic/Uplest/internal/core/object-client"
	"github.com/Halcy0nic/Uplest/internal/services"
)

type App struct {
	Config    *config.Config
	DBClient  db.DbClient
	Embedder  core.EmbeddingProvider
	Queries   core.EmbeddingProvider // query-side embedder; same as Embedder unless the provider distinguishes
	LLM       core.LLMProvider
	Captioner core.ImageCaptioner

	closers []io.Closer
}

// NewApp prepares the database (dropping it first when reset is set), opens
// the vector store and builds the model clients for cfg.AIProvider.
func NewApp(ctx context.Context, cfg *config.Config, reset bool) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := db.PrepareDatabase(appCtx, cfg.DatabaseURL, cfg.SslCertPath, cfg.DBName, reset); err != nil {
		return nil, err
	}

	dbClient, err := db.NewDatabaseClient(appCtx, db.Options{
		DatabaseURL: cfg.DatabaseURL,
		DBName:      cfg.DBName,
		SslCertPath: cfg.SslCertPath,
		Table:       cfg.VectorTable,
		EmbedDim:    cfg.EmbedDim,
	})
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	a := &App{Config: cfg, DBClient: dbClient, closers: []io.Closer{dbClient}}
	if err := a.initModels(appCtx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initModels(ctx context.Context) error {
	cfg := a.Config
	switch cfg.AIProvider {
	case config.ProviderGemini:
		embedder, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
		if err != nil {
			return fmt.Errorf("couldn't initialize the embedder, %w", err)
		}
		a.closers = append(a.closers, embedder)

		gen, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return fmt.Errorf("couldn't initialize the llm, %w", err)
		}
		a.closers = append(a.closers, gen)

		captioner, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.CaptionModel)
		if err != nil {
			return fmt.Errorf("couldn't initialize the captioner, %w", err)
		}
		a.closers = append(a.closers, captioner)

		a.Embedder, a.Queries, a.LLM, a.Captioner = embedder, embedder.ForQueries(), gen, captioner

	default:
		client, err := llm.NewOllamaClient(llm.OllamaOptions{
			BaseURL:      cfg.OllamaURL,
			CaptionModel: cfg.CaptionModel,
			EmbedModel:   cfg.EmbedModel,
			GenModel:     cfg.GenModel,
			GenTimeout:   time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		})
		if err != nil {
			return err
		}
		a.Embedder, a.Queries, a.LLM, a.Captioner = client, client, client, client
	}
	log.Printf("Model provider %s ready (embed=%s caption=%s gen=%s).", cfg.AIProvider, cfg.EmbedModel, cfg.CaptionModel, cfg.GenModel)
	return nil
}

// IngestOptions are per-run overrides of the configured ingest settings.
type IngestOptions struct {
	InputDir             string
	IncludeExtractedText bool
	RunID                string
}

// NewIngestor builds the full ingest pipeline for one run.
func (a *App) NewIngestor(ctx context.Context, opts IngestOptions) (*ingestion_engine.DocumentIngestor, error) {
	cfg := a.Config
	ingCfg := &ingestion_engine.IngestConfig{
		InputDir:             cfg.InputDir,
		WorkDir:              cfg.WorkDir,
		OCREnabled:           cfg.OCREnabled,
		OCRBinary:            cfg.OCRBinary,
		IncludeExtractedText: cfg.IncludeExtractedText || opts.IncludeExtractedText,
		TargetTokens:         cfg.ChunkTokens,
		OverlapTokens:        cfg.ChunkOverlapTokens,
	}
	if opts.InputDir != "" {
		ingCfg.InputDir = opts.InputDir
	}

	pdfText := ingestion_engine.RSCTextReader{}
	ing := ingestion_engine.NewDocumentIngestor(
		ingCfg,
		ingestion_engine.NewDirectoryLoader(ingCfg.InputDir, pdfText),
		ingestion_engine.NewDocxExtractor(ingCfg.WorkDir),
		ingestion_engine.NewPDFExtractor(pdfText, ingestion_engine.NewPDFCPUImages()),
		ingestion_engine.NewOCRPass(ingCfg.OCRBinary),
		a.Captioner,
		ingestion_engine.NewIndexSink(a.Embedder, a.DBClient, ingestion_engine.NewChunker(ingCfg.TargetTokens, ingCfg.OverlapTokens)),
	)

	if cfg.ArchiveEnabled() {
		s3Client, err := objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Println("Object client initialized and ready.")
		ing.WithArchiver(objectclient.NewArchiver(s3Client, s3Client.Bucket(), opts.RunID))
	}
	return ing, nil
}

func (a *App) SearchService() *services.SearchService {
	return services.NewSearchService(a.Queries, a.DBClient, a.LLM)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
