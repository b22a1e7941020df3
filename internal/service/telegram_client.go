package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dorada-store/internal/config"
)

const telegramChannel = "telegram"

// TelegramClient calls the Bot API.
type TelegramClient struct {
	apiBase    string
	httpClient *http.Client
}

type telegramResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// NewTelegramClient creates a client for cfg.APIBase.
func NewTelegramClient(cfg config.TelegramConfig) *TelegramClient {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &TelegramClient{apiBase: base, httpClient: &http.Client{Timeout: timeout}}
}

// GetMe verifies the token and returns the bot username.
func (c *TelegramClient) GetMe(ctx context.Context, token string) (string, error) {
	var result struct {
		Username string `json:"username"`
	}
	if err := c.call(ctx, token, "getMe", nil, &result); err != nil {
		return "", err
	}
	return result.Username, nil
}

// SendMessage posts an HTML message and returns its message id.
func (c *TelegramClient) SendMessage(ctx context.Context, token, chatID, text string) (int64, error) {
	body := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	var result struct {
		MessageID int64 `json:"message_id"`
	}
	if err := c.call(ctx, token, "sendMessage", body, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

func (c *TelegramClient) call(ctx context.Context, token, method string, body interface{}, dest interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, strings.TrimSpace(token), method)
	httpMethod := http.MethodGet
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &NotifyError{Channel: telegramChannel, Op: method, Err: err}
		}
		reader = bytes.NewReader(payload)
		httpMethod = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, url, reader)
	if err != nil {
		return &NotifyError{Channel: telegramChannel, Op: method, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the url carries the token, keep it out of logs
		var urlErr interface{ Unwrap() error }
		if errors.As(err, &urlErr) && urlErr.Unwrap() != nil {
			err = urlErr.Unwrap()
		}
		return &NotifyError{Channel: telegramChannel, Op: method, Err: err}
	}
	defer resp.Body.Close()

	var decoded telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return &NotifyError{Channel: telegramChannel, Op: method, Err: fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)}
	}
	if !decoded.OK {
		description := strings.TrimSpace(decoded.Description)
		if description == "" {
			description = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return &NotifyError{Channel: telegramChannel, Op: method, Err: errors.New(description)}
	}
	if dest != nil && len(decoded.Result) > 0 {
		if err := json.Unmarshal(decoded.Result, dest); err != nil {
			return &NotifyError{Channel: telegramChannel, Op: method, Err: err}
		}
	}
	return nil
}
