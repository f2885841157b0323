package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/adapter"
	"github.com/kapu/pokedex-kakao-bot-go/internal/command"
	"github.com/kapu/pokedex-kakao-bot-go/internal/config"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/iris"
	"go.uber.org/zap"
)

// handleTimeout bounds one command end to end, upstream fetches included.
const handleTimeout = 30 * time.Second

// Dependencies carries everything the bot needs to run. All fields are
// required.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	IrisClient     *iris.Client
	IrisWebSocket  *iris.WebSocket
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Dispatcher     command.Dispatcher
	SendError      func(room, message string) error
}

// Bot connects the iris bridge to the command layer: it reads chat events,
// filters them to the configured rooms and dispatches parsed commands.
type Bot struct {
	deps         *Dependencies
	allowedRooms map[string]struct{}
	logger       *zap.Logger

	handlersWg sync.WaitGroup
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	if deps.Config == nil || deps.Logger == nil {
		return nil, fmt.Errorf("config and logger are required")
	}
	if deps.IrisClient == nil || deps.IrisWebSocket == nil {
		return nil, fmt.Errorf("iris client and websocket are required")
	}
	if deps.MessageAdapter == nil || deps.Formatter == nil || deps.Dispatcher == nil {
		return nil, fmt.Errorf("adapter, formatter and dispatcher are required")
	}

	allowed := make(map[string]struct{}, len(deps.Config.Kakao.Rooms))
	for _, room := range deps.Config.Kakao.Rooms {
		allowed[room] = struct{}{}
	}

	return &Bot{
		deps:         deps,
		allowedRooms: allowed,
		logger:       deps.Logger,
	}, nil
}

// Start connects the websocket and blocks until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.deps.IrisWebSocket.OnMessage(func(message *iris.Message) {
		b.handleMessage(ctx, message)
	})

	b.deps.IrisWebSocket.OnStateChange(func(state iris.WebSocketState) {
		if state == iris.WSStateFailed {
			b.logger.Error("Bridge connection failed permanently")
		}
	})

	if !b.deps.IrisClient.Ping(ctx) {
		b.logger.Warn("Bridge HTTP endpoint not answering, replies may fail until it comes up")
	}

	if err := b.deps.IrisWebSocket.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to iris bridge: %w", err)
	}

	b.logger.Info("Bot is running",
		zap.Bool("bridge_connected", b.deps.IrisWebSocket.IsConnected()),
		zap.Int("allowed_rooms", len(b.allowedRooms)),
	)

	<-ctx.Done()
	return nil
}

// Shutdown stops the websocket and waits for in-flight handlers, bounded by
// the provided context.
func (b *Bot) Shutdown(ctx context.Context) error {
	if err := b.deps.IrisWebSocket.Disconnect(); err != nil {
		b.logger.Warn("Failed to disconnect websocket", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		b.handlersWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("All handlers finished")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out with handlers still running")
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *iris.Message) {
	if message == nil || message.Msg == "" {
		return
	}

	if _, ok := b.allowedRooms[message.Room]; !ok {
		b.logger.Debug("Ignoring message from unconfigured room",
			zap.String("room", message.Room),
		)
		return
	}

	sender := message.SenderName()
	if sender == "" {
		return
	}

	parsed := b.deps.MessageAdapter.ParseMessage(message)
	if parsed == nil || parsed.Type == domain.CommandUnknown {
		return
	}

	cmdCtx := domain.NewCommandContext(message.Room, message.Room, sender, message.Msg, true)

	// Commands run concurrently so one slow upstream call does not stall
	// the room.
	b.handlersWg.Add(1)
	go func() {
		defer b.handlersWg.Done()
		b.runCommand(ctx, cmdCtx, parsed)
	}()
}

func (b *Bot) runCommand(ctx context.Context, cmdCtx *domain.CommandContext, parsed *adapter.ParsedCommand) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Command handler panicked",
				zap.String("command", parsed.Type.String()),
				zap.Any("panic", r),
			)
			b.sendError(cmdCtx.Room, "명령을 처리하는 중 오류가 발생했습니다.")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	b.logger.Info("Executing command",
		zap.String("command", parsed.Type.String()),
		zap.String("room", cmdCtx.Room),
		zap.String("sender", cmdCtx.Sender),
	)

	_, err := b.deps.Dispatcher.Publish(runCtx, cmdCtx, command.CommandEvent{
		Type:   parsed.Type,
		Params: parsed.Params,
	})
	if err != nil {
		if errors.Is(err, command.ErrUnknownCommand) {
			b.logger.Warn("No handler for parsed command",
				zap.String("command", parsed.Type.String()),
			)
			return
		}
		b.logger.Error("Command execution failed",
			zap.String("command", parsed.Type.String()),
			zap.Error(err),
		)
		b.sendError(cmdCtx.Room, "명령을 처리하는 중 오류가 발생했습니다.")
	}
}

func (b *Bot) sendError(room, message string) {
	if b.deps.SendError == nil {
		return
	}
	if err := b.deps.SendError(room, message); err != nil {
		b.logger.Error("Failed to deliver error message",
			zap.String("room", room),
			zap.Error(err),
		)
	}
}
