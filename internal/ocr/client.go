package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.ocr.space/parse/image"
	defaultUserAgent = "labinsight-ocr/0.1"

	// defaultMaxDocumentBytes matches the provider's free-tier upload limit.
	defaultMaxDocumentBytes = 5 * 1024 * 1024

	// minTextLength is the shortest recognized text accepted as a usable scan.
	minTextLength = 10
)

// Terminal error categories surfaced to callers. Transient rate-limit
// failures are retried internally and only surface after retries run out.
var (
	ErrInvalidCredentials = errors.New("ocr: invalid API credentials")
	ErrQuotaExceeded      = errors.New("ocr: API quota exceeded")
	ErrFileTooLarge       = errors.New("ocr: document exceeds the maximum supported size")
	ErrNoText             = errors.New("ocr: no readable text found in document")
)

// Config controls how the OCR client behaves.
type Config struct {
	BaseURL          string
	APIKey           string
	FallbackAPIKey   string
	MaxDocumentBytes int64
	Timeout          time.Duration
	MaxRetries       int
	Backoff          time.Duration
	HTTPClient       *http.Client
	Logger           *slog.Logger
	UserAgent        string
}

// Client calls an OCR.space-compatible text recognition endpoint. It owns
// retry/backoff for rate-limit responses and failover to a secondary
// credential; callers see plain text or one terminal error per category.
type Client struct {
	baseURL          string
	apiKey           string
	fallbackAPIKey   string
	maxDocumentBytes int64
	httpClient       *http.Client
	maxRetries       int
	backoff          time.Duration
	logger           *slog.Logger
	userAgent        string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ocr: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	maxBytes := cfg.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDocumentBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:          baseURL,
		apiKey:           cfg.APIKey,
		fallbackAPIKey:   cfg.FallbackAPIKey,
		maxDocumentBytes: maxBytes,
		httpClient:       httpClient,
		maxRetries:       maxRetries,
		backoff:          backoff,
		logger:           logger,
		userAgent:        userAgent,
	}, nil
}

// Recognize uploads a document and returns the recognized text. The primary
// credential is tried first; invalid-key and quota failures fail over once to
// the fallback credential. Rate-limit responses are retried with exponential
// backoff up to the configured attempt count.
func (c *Client) Recognize(ctx context.Context, filename string, document io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(document, c.maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("ocr: read document: %w", err)
	}
	if int64(len(data)) > c.maxDocumentBytes {
		return "", fmt.Errorf("%w (limit %d bytes)", ErrFileTooLarge, c.maxDocumentBytes)
	}

	keys := []string{c.apiKey}
	if strings.TrimSpace(c.fallbackAPIKey) != "" {
		keys = append(keys, c.fallbackAPIKey)
	}

	var lastErr error
	for i, key := range keys {
		text, err := c.recognizeWithKey(ctx, key, filename, data)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isCredentialError(err) || i == len(keys)-1 {
			break
		}
		c.logger.Warn("primary OCR credential failed, retrying with fallback key", "error", err)
	}
	return "", lastErr
}

func (c *Client) recognizeWithKey(ctx context.Context, apiKey, filename string, data []byte) (string, error) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, contentType, err := buildForm(apiKey, filename, data)
		if err != nil {
			return "", err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
		if err != nil {
			return "", fmt.Errorf("ocr: build request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt == c.maxRetries {
				return "", fmt.Errorf("ocr: http error: %w", err)
			}
			c.logger.Warn("OCR request failed, retrying", "attempt", attempt, "error", err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return "", sleepErr
			}
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", fmt.Errorf("ocr: read response: %w", readErr)
		}

		if resp.StatusCode == http.StatusForbidden {
			msg := string(raw)
			if strings.Contains(msg, "concurrent connections") && attempt < c.maxRetries {
				c.logger.Warn("OCR rate limited, backing off", "attempt", attempt)
				if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
					return "", sleepErr
				}
				continue
			}
			return "", classifyMessage(msg)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("ocr: request failed with status %d", resp.StatusCode)
		}

		var parsed parseResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return "", fmt.Errorf("ocr: decode response: %w", err)
		}

		if parsed.IsErroredOnProcessing {
			return "", classifyMessage(parsed.firstError())
		}
		if len(parsed.ParsedResults) == 0 {
			return "", fmt.Errorf("%w: provider returned no results", ErrNoText)
		}

		text := parsed.ParsedResults[0].ParsedText
		if len(strings.TrimSpace(text)) < minTextLength {
			return "", fmt.Errorf("%w: recognized only %d characters", ErrNoText, len(strings.TrimSpace(text)))
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: retries exhausted", ErrQuotaExceeded)
}

// buildForm assembles the multipart payload the parse endpoint expects.
func buildForm(apiKey, filename string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"apikey":            apiKey,
		"language":          "eng",
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"isTable":           "true",
		"scale":             "true",
		"OCREngine":         "2",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("ocr: write form field: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("ocr: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("ocr: write document: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ocr: close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// classifyMessage maps a provider error message onto the client's terminal
// error taxonomy.
func classifyMessage(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid api key") || strings.Contains(lower, "api key"):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case strings.Contains(lower, "quota") || strings.Contains(lower, "concurrent connections"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
	case strings.Contains(lower, "unable to recognize") || strings.Contains(lower, "no text"):
		return fmt.Errorf("%w: %s", ErrNoText, msg)
	default:
		return fmt.Errorf("ocr: processing failed: %s", msg)
	}
}

func isCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrQuotaExceeded)
}

// sleep waits for the backoff delay of the given attempt, doubling each time,
// unless the context is cancelled first.
func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<(attempt-1))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
