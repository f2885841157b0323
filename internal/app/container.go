package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/adapter"
	"github.com/kapu/pokedex-kakao-bot-go/internal/bot"
	"github.com/kapu/pokedex-kakao-bot-go/internal/command"
	"github.com/kapu/pokedex-kakao-bot-go/internal/config"
	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/iris"
	"github.com/kapu/pokedex-kakao-bot-go/internal/service"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close tears down the container's services in reverse build order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services and returns a container capable of
// creating fully-wired bots. All heavy-weight initialization (DB/cache/AI) is
// performed here so that bot.NewBot stays focused on orchestration logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	irisClient := iris.NewClient(cfg.Iris.BaseURL, logger)
	irisWS := iris.NewWebSocket(cfg.Iris.WSURL,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := service.NewCacheService(service.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	if err := cacheSvc.WaitUntilReady(ctx, constants.RedisConfig.ReadyTimeout); err != nil {
		return nil, fmt.Errorf("cache not ready: %w", err)
	}

	postgresSvc, err := service.NewPostgresService(cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	historyRepo := service.NewHistoryRepository(postgresSvc, logger)

	// Dex pipeline: scraper is the fallback source behind the API client.
	scraper := service.NewScraperService(cacheSvc, logger)
	pokeapiSvc := service.NewPokeAPIService(cacheSvc, scraper, logger)
	matcherSvc := service.NewCreatureMatcher(pokeapiSvc, cacheSvc, logger)
	collectionSvc := service.NewCollectionService(cacheSvc, logger)
	quizSvc := service.NewQuizService(pokeapiSvc, cacheSvc, dex.NewSource(), logger)

	// AI stack, optional: without a key the prefix commands keep working.
	var parseEngine command.NaturalLanguageParser
	if cfg.AIEnabled() {
		modelManager, mmErr := service.NewModelManager(ctx, service.ModelManagerConfig{
			GeminiAPIKey:       cfg.Gemini.APIKey,
			OpenAIAPIKey:       cfg.OpenAI.APIKey,
			DefaultGeminiModel: cfg.Gemini.Model,
			DefaultOpenAIModel: cfg.OpenAI.Model,
			EnableFallback:     cfg.OpenAI.EnableFallback,
		}, logger)
		if mmErr != nil {
			return nil, fmt.Errorf("failed to create model manager: %w", mmErr)
		}
		parseEngine = service.NewParseEngine(modelManager, cfg.Bot.Prefix, logger)
		logger.Info("Natural language commands enabled")
	} else {
		logger.Info("No AI provider configured, natural language commands disabled")
	}

	// Outbound callbacks close over the iris client. Sends carry their own
	// deadline instead of the command context so a reply still goes out
	// when the handler budget is exhausted.
	sendMessage := func(room, message string) error {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return irisClient.SendText(sendCtx, room, message)
	}
	sendImage := func(room string, image []byte) error {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return irisClient.SendImage(sendCtx, room, base64.StdEncoding.EncodeToString(image))
	}
	sendError := func(room, message string) error {
		return sendMessage(room, formatter.FormatError(message))
	}

	registry := command.NewRegistry()
	dispatcher := command.NewSequentialDispatcher(registry, func(cmdType domain.CommandType, params map[string]any) (string, map[string]any) {
		return cmdType.String(), params
	})

	cmdDeps := &command.Dependencies{
		Dex:         pokeapiSvc,
		Matcher:     matcherSvc,
		Collection:  collectionSvc,
		Quiz:        quizSvc,
		History:     historyRepo,
		Parser:      parseEngine,
		Formatter:   formatter,
		Rand:        dex.NewSource(),
		SendMessage: sendMessage,
		SendImage:   sendImage,
		SendError:   sendError,
		Dispatcher:  dispatcher,
		Logger:      logger,
	}

	registry.Register(command.NewHelpCommand(cmdDeps))
	registry.Register(command.NewDexCommand(cmdDeps))
	registry.Register(command.NewListCommand(cmdDeps))
	registry.Register(command.NewCatchCommand(cmdDeps))
	registry.Register(command.NewCollectionCommand(cmdDeps))
	registry.Register(command.NewQuizCommand(cmdDeps))
	registry.Register(command.NewAnswerCommand(cmdDeps))
	registry.Register(command.NewSearchCommand(cmdDeps))
	registry.Register(command.NewRankingCommand(cmdDeps))
	registry.Register(command.NewAskCommand(cmdDeps))

	logger.Info("Command registry assembled", zap.Int("commands", registry.Count()))

	deps := &bot.Dependencies{
		Config:         cfg,
		Logger:         logger,
		IrisClient:     irisClient,
		IrisWebSocket:  irisWS,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Dispatcher:     dispatcher,
		SendError:      sendError,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
		closers: closers,
	}, nil
}
