package gemini

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

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	"github.com/Apurer/mediswift-api/internal/domains/assistant/ports"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"

	defaultTemperature      = 0.7
	defaultMaxRetries       = 2
	defaultMaxResponseBytes = 4 << 20
)

var (
	// ErrMissingAPIKey is returned by Generate when no key was configured.
	ErrMissingAPIKey = errors.New("gemini API key not configured")
	// ErrResponseTooLarge is returned when the API answers with more than the accepted body size.
	ErrResponseTooLarge = errors.New("gemini response too large")
)

// APIError is a non-2xx answer from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini: HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	maxRetries uint64
	maxBody    int64
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

func WithBaseURL(url string) Option {
	return func(client *Client) {
		if url = strings.TrimSpace(url); url != "" {
			client.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithModel(model string) Option {
	return func(client *Client) {
		if model = strings.TrimSpace(model); model != "" {
			client.model = model
		}
	}
}

// WithMaxRetries sets how many times a throttled or failed call is retried.
func WithMaxRetries(n uint64) Option {
	return func(client *Client) {
		client.maxRetries = n
	}
}

// NewClient builds a Gemini client whose HTTP calls are traced.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxRetries: defaultMaxRetries,
		maxBody:    defaultMaxResponseBytes,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate asks the model one question under the assistant system instruction. An answer without
// text yields an empty string and no error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	body, err := json.Marshal(generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig:  &generationConfig{Temperature: defaultTemperature},
		SystemInstruction: &content{Parts: []part{{Text: domain.SystemInstruction}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	var answer string
	operation := func() error {
		text, err := c.call(ctx, body)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		answer = text
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Client) call(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create gemini request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if int64(len(payload)) > c.maxBody {
		return "", backoff.Permanent(fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBody))
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var decoded errorResponse
		if json.Unmarshal(payload, &decoded) == nil {
			apiErr.Status = decoded.Error.Status
			apiErr.Message = decoded.Error.Message
		}
		return "", apiErr
	}

	var decoded generateResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", backoff.Permanent(fmt.Errorf("parse gemini response: %w", err))
	}
	if len(decoded.Candidates) == 0 {
		return "", nil
	}
	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

var _ ports.Client = (*Client)(nil)
