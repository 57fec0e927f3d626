package di

import (
	"log/slog"
	"time"

	"github.com/jfx1026/creativelink-ai-search/internal/adapter/chathttp"
	"github.com/jfx1026/creativelink-ai-search/internal/adapter/extract"
	"github.com/jfx1026/creativelink-ai-search/internal/adapter/llm"
	"github.com/jfx1026/creativelink-ai-search/internal/adapter/wordpress"
	"github.com/jfx1026/creativelink-ai-search/internal/domain"
	"github.com/jfx1026/creativelink-ai-search/internal/infra/config"
	"github.com/jfx1026/creativelink-ai-search/internal/infra/httpclient"
	"github.com/jfx1026/creativelink-ai-search/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Index   usecase.IndexService
	Chat    usecase.ChatUsecase
	Handler *chathttp.Handler
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) *ApplicationComponents {
	// Shared HTTP clients with connection pooling
	contentHTTP := httpclient.NewPooledClient(30 * time.Second)
	modelHTTP := httpclient.NewPooledClient(120 * time.Second)

	// Content source adapters
	extractor := extract.New(cfg.SiteDomain)
	contentClient := wordpress.NewClient(
		cfg.ContentAPIURL, cfg.CategoryID, cfg.PerPage, cfg.MaxPages,
		contentHTTP, log,
	)

	// Index cache
	indexService := usecase.NewIndexService(contentClient, extractor, cfg.CacheTTL, log)

	// Prompt composer follows the citation mode
	mode := usecase.CitationMode(cfg.CitationMode)
	var promptBuilder usecase.PromptBuilder
	if mode == usecase.CitationModeTrailer {
		promptBuilder = usecase.NewNumberedPromptBuilder(cfg.ArchiveName, cfg.ArchiveURL)
	} else {
		promptBuilder = usecase.NewArchivePromptBuilder(cfg.ArchiveName, cfg.ArchiveURL)
	}

	// Language model
	var llmClient domain.LLMClient
	switch cfg.LLMProvider {
	case "anthropic":
		llmClient = llm.NewAnthropicStreamer(cfg.LLMAPIKey, cfg.LLMModel, cfg.MaxTokens)
	default:
		llmClient = llm.NewOpenAIStreamer(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.MaxTokens, modelHTTP)
	}

	chatUsecase := usecase.NewChatUsecase(indexService, promptBuilder, llmClient, mode, cfg.MaxResults, log)

	handler := chathttp.NewHandler(chatUsecase, indexService, log)

	return &ApplicationComponents{
		Index:   indexService,
		Chat:    chatUsecase,
		Handler: handler,
	}
}
