package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

// ParseModeMarkdown is the legacy Markdown mode used by the bot texts
const ParseModeMarkdown = "Markdown"

// Update is one incoming Bot API update
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is the subset of a Bot API message the bot reads
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
	Date      int64  `json:"date"`
}

// Chat identifies the conversation to reply to
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// APIError is an ok=false reply from the Bot API
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client talks to the Telegram Bot API
// ⭐ SSOT: Telegram Bot API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	token      string
}

// NewClient creates a new Bot API client.
// httpClient's timeout must exceed the long-poll timeout.
func NewClient(httpClient *httputil.Client, baseURL, token string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "telegram"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call posts a JSON payload and decodes the result field into dest
func (c *Client) call(ctx context.Context, method string, payload interface{}, dest interface{}) error {
	resp, err := c.httpClient.PostJSON(ctx, c.methodURL(method), payload)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decode(method, resp.Body, dest)
}

func decode(method string, body io.Reader, dest interface{}) error {
	var out apiResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !out.OK {
		return &APIError{Method: method, Code: out.ErrorCode, Description: out.Description}
	}
	if dest == nil || len(out.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(out.Result, dest); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// GetUpdates long-polls for updates with id >= offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         int(timeout / time.Second),
		"allowed_updates": []string{"message"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends text to a chat, optionally as Markdown
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if markdown {
		payload["parse_mode"] = ParseModeMarkdown
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SendDocument uploads data as a file attachment
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("telegram sendDocument: %w", err)
		}
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, c.methodURL("sendDocument"), w.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	defer resp.Body.Close()

	return decode("sendDocument", resp.Body, nil)
}

// Poll delivers updates to handler until ctx is cancelled.
// The offset advances past every delivered update.
func (c *Client) Poll(ctx context.Context, timeout time.Duration, handler func(Update)) error {
	var offset int64
	backoff := time.Second

	c.logger.Info("Telegram polling started")
	for {
		if ctx.Err() != nil {
			c.logger.Info("Telegram polling stopped")
			return nil
		}

		updates, err := c.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Telegram polling stopped")
				return nil
			}
			c.logger.WithError(err).WithField("backoff", backoff).Warn("getUpdates failed")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			handler(u)
		}
	}
}

// Sender is anything that can send a chat message
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error
}

// SendMarkdown sends text as Markdown and resends it as plain text
// when the Bot API rejects the markup.
func SendMarkdown(ctx context.Context, s Sender, chatID int64, text string) error {
	err := s.SendMessage(ctx, chatID, text, true)
	var apiErr *APIError
	if err != nil && errors.As(err, &apiErr) {
		return s.SendMessage(ctx, chatID, text, false)
	}
	return err
}
