package iris

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

// WebSocket is the inbound side of the iris bridge. It reads chat events,
// fans them out to registered callbacks and reconnects with a fixed delay
// up to maxReconnectAttempts.
type WebSocket struct {
	wsURL                string
	conn                 *websocket.Conn
	connMu               sync.Mutex
	state                WebSocketState
	stateMu              sync.RWMutex
	messageCallbacks     []MessageCallback
	stateCallbacks       []StateCallback
	callbacksMu          sync.RWMutex
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	listenerWg           sync.WaitGroup
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL:                wsURL,
		state:                WSStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
	}
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	ws.stateMu.Lock()
	if ws.state == WSStateConnected || ws.state == WSStateConnecting {
		ws.stateMu.Unlock()
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}
	ws.stateMu.Unlock()

	ws.setState(WSStateConnecting)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		ws.setState(WSStateFailed)
		ws.scheduleReconnect(ctx)
		return err
	}

	ws.connMu.Lock()
	ws.conn = conn
	ws.connMu.Unlock()

	ws.setState(WSStateConnected)
	ws.reconnectAttempts = 0

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.listenerWg.Add(1)
	go ws.listen(ctx, conn)

	return nil
}

func (ws *WebSocket) listen(ctx context.Context, conn *websocket.Conn) {
	defer ws.listenerWg.Done()
	defer ws.logger.Info("WebSocket listener stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		default:
			_, msgBytes, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-ws.stopCh:
					return
				default:
				}
				ws.logger.Error("WebSocket read error", zap.Error(err))
				ws.setState(WSStateDisconnected)
				ws.scheduleReconnect(ctx)
				return
			}

			ws.dispatch(msgBytes)
		}
	}
}

func (ws *WebSocket) dispatch(data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		ws.logger.Error("Failed to parse message",
			zap.Error(err),
			zap.String("data", preview),
		)
		return
	}

	ws.callbacksMu.RLock()
	callbacks := make([]MessageCallback, len(ws.messageCallbacks))
	copy(callbacks, ws.messageCallbacks)
	ws.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(&message)
	}
}

func (ws *WebSocket) scheduleReconnect(ctx context.Context) {
	ws.reconnectAttempts++

	if ws.reconnectAttempts > ws.maxReconnectAttempts {
		ws.logger.Error("Max reconnect attempts reached",
			zap.Int("attempts", ws.reconnectAttempts),
		)
		ws.setState(WSStateFailed)
		return
	}

	ws.setState(WSStateReconnecting)

	ws.logger.Info("Scheduling reconnect",
		zap.Int("attempt", ws.reconnectAttempts),
		zap.Int("max", ws.maxReconnectAttempts),
		zap.Duration("delay", ws.reconnectDelay),
	)

	go func() {
		select {
		case <-time.After(ws.reconnectDelay):
			if err := ws.Connect(ctx); err != nil {
				ws.logger.Error("Reconnect failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		}
	}()
}

func (ws *WebSocket) OnMessage(callback MessageCallback) {
	ws.callbacksMu.Lock()
	defer ws.callbacksMu.Unlock()
	ws.messageCallbacks = append(ws.messageCallbacks, callback)
}

func (ws *WebSocket) OnStateChange(callback StateCallback) {
	ws.callbacksMu.Lock()
	defer ws.callbacksMu.Unlock()
	ws.stateCallbacks = append(ws.stateCallbacks, callback)
}

func (ws *WebSocket) setState(newState WebSocketState) {
	ws.stateMu.Lock()
	oldState := ws.state
	ws.state = newState
	ws.stateMu.Unlock()

	if oldState == newState {
		return
	}

	ws.logger.Info("WebSocket state changed",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
	)

	ws.callbacksMu.RLock()
	callbacks := make([]StateCallback, len(ws.stateCallbacks))
	copy(callbacks, ws.stateCallbacks)
	ws.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(newState)
	}
}

func (ws *WebSocket) GetState() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) IsConnected() bool {
	return ws.GetState() == WSStateConnected
}

func (ws *WebSocket) Disconnect() error {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})

	ws.connMu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.connMu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			ws.logger.Error("Failed to close WebSocket", zap.Error(err))
		}
	}

	ws.setState(WSStateDisconnected)

	done := make(chan struct{})
	go func() {
		ws.listenerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ws.logger.Info("Listener stopped cleanly")
	case <-time.After(5 * time.Second):
		ws.logger.Warn("Timeout waiting for listener to stop")
	}

	return nil
}
