package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"PassProbeBot/model"
)

// Client talks to the Telegram Bot API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for <apiBase>/bot<token>/<method>.
func NewClient(apiBase, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(apiBase, "/") + "/bot" + token + "/",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned when the Bot API answers ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: telegram error %d: %s", e.Method, e.Code, e.Description)
}

// IsNotModified reports whether err is the Bot API refusing an edit that
// would leave the message unchanged.
func IsNotModified(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified")
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Send performs one outbound request.
func (c *Client) Send(ctx context.Context, req model.OutboundRequest) error {
	slog.Debug("telegram API call", "component", "bot", "operation", req.Method, "chat_id", req.ChatID)
	return c.post(ctx, req.Method, req.Params())
}

// SetWebhook points the bot at url. An empty secret leaves the webhook unauthenticated.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]any{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}
	if secret != "" {
		body["secret_token"] = secret
	}
	return c.post(ctx, "setWebhook", body)
}

func (c *Client) post(ctx context.Context, method string, body any) error {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(body); err != nil {
		return fmt.Errorf("%s: marshal: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, &b)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", method, err)
	}

	var r apiResponse
	if err := json.Unmarshal(data, &r); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d: %s", method, resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s: unmarshal: %w", method, err)
	}
	if !r.Ok {
		code := r.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: r.Description}
	}
	return nil
}

// GenerateUUID returns a random uuid without dashes, usable as a webhook secret.
func GenerateUUID() string {
	uid := uuid.New().String()
	return strings.ReplaceAll(uid, "-", "")
}

// ParseCommand splits "/cmd@botname arg..." into "/cmd" and the trimmed argument.
// Text that is not a command yields an empty command.
func ParseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	word := strings.Fields(text)[0]
	name, _, _ := strings.Cut(word, "@")
	return name, strings.TrimSpace(text[len(word):])
}
