// Command pdfchat answers questions about local PDF documents with local models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/logger"
	"github.com/custodia-labs/pdfchat/internal/normalisers/pdf"
	"github.com/custodia-labs/pdfchat/internal/postprocessors"
	"github.com/custodia-labs/pdfchat/internal/vectorindex"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A .env file may set OLLAMA_HOST; a missing file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	err := cli.Execute(ctx)
	stop()
	os.Exit(cli.ExitCode(err))
}

// newServices wires the adapters into the core services.
func newServices(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("config path: %s", configStore.Path())
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	models, err := ai.Init(context.Background(), *settings, false)
	if err != nil {
		return nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	store := sqlite.NewIndexStore(settings.Index.Path)
	logger.Debug("index path: %s", store.Path())

	session := services.NewSessionService(services.SessionDeps{
		Normaliser:   pdf.New(),
		Pipelines:    postprocessors.Builder(registry),
		Embedder:     models.EmbeddingService,
		LLM:          models.LLMService,
		IndexBuilder: vectorindex.Builder,
		Store:        store,
	}, settings.Chunking.Size)

	return &cli.Services{
		Session:     session,
		Settings:    settingsService,
		CheckModels: checkModels,
		Close:       models.Close,
	}, nil
}

// checkModels pings each configured model.
func checkModels(ctx context.Context, settings *domain.AppSettings) []cli.ModelStatus {
	statuses := []cli.ModelStatus{
		{Role: "embedding", Model: settings.Embedding.Model},
		{Role: "llm", Model: settings.LLM.Model},
	}

	if svc, err := ai.CreateAndValidateEmbeddingService(ctx, settings.Embedding); err != nil {
		statuses[0].Err = err
	} else {
		svc.Close()
	}
	if svc, err := ai.CreateAndValidateLLMService(ctx, settings.LLM); err != nil {
		statuses[1].Err = err
	} else {
		svc.Close()
	}
	return statuses
}
