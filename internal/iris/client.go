package iris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Client talks to the iris bridge over HTTP: outbound messages only,
// inbound chat arrives via the WebSocket.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) SendText(ctx context.Context, room, message string) error {
	req := ReplyRequest{
		Type: "text",
		Room: room,
		Data: message,
	}

	if err := c.doRequest(ctx, http.MethodPost, "/reply", req); err != nil {
		c.logger.Error("Failed to send message",
			zap.Error(err),
			zap.String("room", room),
		)
		return err
	}

	return nil
}

func (c *Client) SendImage(ctx context.Context, room, imageBase64 string) error {
	req := ReplyRequest{
		Type: "image",
		Room: room,
		Data: imageBase64,
	}

	if err := c.doRequest(ctx, http.MethodPost, "/reply", req); err != nil {
		c.logger.Error("Failed to send image",
			zap.Error(err),
			zap.String("room", room),
		)
		return err
	}

	return nil
}

// Ping reports whether the bridge answers on its config endpoint.
func (c *Client) Ping(ctx context.Context) bool {
	return c.doRequest(ctx, http.MethodGet, "/config", nil) == nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", 400, map[string]any{
				"url": url,
			}).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return errors.NewAPIError(
			fmt.Sprintf("iris API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  url,
				"body": string(bodyBytes),
			},
		)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
