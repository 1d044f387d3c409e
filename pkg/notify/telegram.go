package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// TelegramConfig represents the configuration for the Telegram bot client.
type TelegramConfig struct {
	APIURL   string // Default: https://api.telegram.org
	BotToken string
	Timeout  time.Duration // Default: 30 seconds
	Retries  int           // Transient-failure retries per request. Default: 3, negative disables
}

// Telegram is a Telegram Bot API client implementing Notifier.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewTelegram creates a new Telegram bot client. Transient HTTP
// failures are retried with backoff up to the configured retry count
// before being surfaced as a transient DeliveryError.
func NewTelegram(config TelegramConfig) *Telegram {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	retries := config.Retries
	if retries == 0 {
		retries = 3
	} else if retries < 0 {
		retries = 0 // negative disables retries
	}
	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return &Telegram{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      config.BotToken,
	}
}

// Deliver sends the summary text to a chat via the sendMessage method.
func (t *Telegram) Deliver(ctx context.Context, summary, destination string) (*DeliveryResult, error) {
	if destination == "" {
		return nil, &DeliveryError{Reason: "destination chat ID is empty"}
	}

	data := url.Values{}
	data.Set("chat_id", destination)
	data.Set("text", summary)

	req, err := http.NewRequestWithContext(ctx, "POST", t.methodURL("sendMessage"),
		strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &DeliveryError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := t.do(req); err != nil {
		return nil, err
	}

	return &DeliveryResult{
		Channel:     "telegram",
		Destination: destination,
		SentAt:      time.Now(),
	}, nil
}

// SendDocument uploads a file to a chat via the sendDocument method.
func (t *Telegram) SendDocument(ctx context.Context, destination, filePath string) (*DeliveryResult, error) {
	if destination == "" {
		return nil, &DeliveryError{Reason: "destination chat ID is empty"}
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, &DeliveryError{Reason: fmt.Sprintf("failed to open attachment %s", filePath), Err: err}
	}
	defer f.Close()

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", destination); err != nil {
		return nil, &DeliveryError{Reason: "failed to build request body", Err: err}
	}
	part, err := writer.CreateFormFile("document", filepath.Base(filePath))
	if err != nil {
		return nil, &DeliveryError{Reason: "failed to build request body", Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, &DeliveryError{Reason: fmt.Sprintf("failed to read attachment %s", filePath), Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &DeliveryError{Reason: "failed to build request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.methodURL("sendDocument"),
		strings.NewReader(body.String()))
	if err != nil {
		return nil, &DeliveryError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := t.do(req); err != nil {
		return nil, err
	}

	return &DeliveryResult{
		Channel:     "telegram",
		Destination: destination,
		SentAt:      time.Now(),
	}, nil
}

// do executes a request and maps the outcome onto the delivery error
// model: network failures and timeouts are transient, Telegram 429 and
// 5xx responses are transient, other API errors are permanent.
func (t *Telegram) do(req *http.Request) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &DeliveryError{Transient: true, Reason: "request timed out", Err: err}
		}
		return &DeliveryError{Transient: true, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return t.parseError(resp)
}

// parseError parses an error response from the Telegram Bot API.
func (t *Telegram) parseError(resp *http.Response) error {
	transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &DeliveryError{
			Transient: transient,
			Reason:    fmt.Sprintf("Telegram API error (status %d): failed to read error response", resp.StatusCode),
		}
	}

	var errResp telegramResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Description == "" {
		return &DeliveryError{
			Transient: transient,
			Reason:    fmt.Sprintf("Telegram API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	return &DeliveryError{
		Transient: transient,
		Reason:    fmt.Sprintf("Telegram API error: %s", errResp.Description),
	}
}

func (t *Telegram) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
}

// telegramResponse represents a Bot API response envelope.
type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}
