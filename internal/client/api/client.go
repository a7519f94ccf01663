package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/shopkeeper/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI операции удалённого marketplace API, которые использует клиент
type ClientAPI interface {
	RequestChallenge(ctx context.Context, req api.ChallengeRequest) (*api.ChallengeResponse, error)
	Verify(ctx context.Context, req api.VerifyRequest) (*api.VerifyResponse, error)
	Push(ctx context.Context, token string, manifest *api.SyncManifest) (*api.PushResponse, error)
	Pull(ctx context.Context, token, since string) (*api.PullResponse, error)
}

// DefaultTimeout is the request timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes ограничивает размер читаемого ответа
const maxResponseBytes = 8 << 20

// Client представляет HTTP клиент для взаимодействия с marketplace API
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	userAgent  string
}

var _ ClientAPI = (*Client)(nil)

// Option configures a Client using the functional options pattern
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "shopkeeper-client/1.0",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestChallenge запрашивает challenge для подписи внешним кошельком
func (c *Client) RequestChallenge(ctx context.Context, req api.ChallengeRequest) (*api.ChallengeResponse, error) {
	var resp api.ChallengeResponse
	if err := c.Do(ctx, http.MethodPost, "/api/v1/auth/challenge", "", req, &resp); err != nil {
		return nil, fmt.Errorf("challenge request failed: %w", err)
	}
	return &resp, nil
}

// Verify отправляет подписанный challenge и получает bearer токен
func (c *Client) Verify(ctx context.Context, req api.VerifyRequest) (*api.VerifyResponse, error) {
	var resp api.VerifyResponse
	if err := c.Do(ctx, http.MethodPost, "/api/v1/auth/verify", "", req, &resp); err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("verify request failed: empty token in response")
	}
	return &resp, nil
}

// Push отправляет манифест и возвращает результат синхронизации
func (c *Client) Push(ctx context.Context, token string, manifest *api.SyncManifest) (*api.PushResponse, error) {
	var resp api.PushResponse
	if err := c.Do(ctx, http.MethodPost, "/api/v1/sync/push", token, manifest, &resp); err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return &resp, nil
}

// Pull получает изменения на стороне сервера с момента since
func (c *Client) Pull(ctx context.Context, token, since string) (*api.PullResponse, error) {
	path := "/api/v1/sync/pull"
	if since != "" {
		path += "?" + url.Values{"since": []string{since}}.Encode()
	}

	var resp api.PullResponse
	if err := c.Do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

// Do выполняет HTTP запрос к API. body сериализуется в JSON, успешный ответ
// декодируется в result. Ответ с кодом вне 2xx возвращается как *api.RemoteError.
func (c *Client) Do(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remoteErr := &api.RemoteError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			remoteErr.Code = errResp.Error
			remoteErr.Message = errResp.Message
			if remoteErr.Message == "" {
				remoteErr.Message = errResp.Error
			}
		} else {
			remoteErr.Message = strings.TrimSpace(string(respBody))
		}
		return remoteErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
