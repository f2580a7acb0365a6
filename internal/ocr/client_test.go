package ocr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "CITY DIAGNOSTICS LAB\nPatient Name: John Doe\nHemoglobin 10.5 g/dL\n"

func successBody(text string) string {
	return fmt.Sprintf(`{"ParsedResults":[{"ParsedText":%q,"FileParseExitCode":1}],"OCRExitCode":1,"IsErroredOnProcessing":false}`, text)
}

func newTestClient(t *testing.T, srvURL string, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = srvURL
	if cfg.APIKey == "" {
		cfg.APIKey = "primary-key"
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Millisecond
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestRecognize_Success(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotKey = r.FormValue("apikey")
		assert.Equal(t, "eng", r.FormValue("language"))
		assert.Equal(t, "2", r.FormValue("OCREngine"))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		fmt.Fprint(w, successBody(sampleText))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{})
	text, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("fake image bytes"))

	require.NoError(t, err)
	assert.Equal(t, sampleText, text)
	assert.Equal(t, "primary-key", gotKey)
}

func TestRecognize_FileTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for oversized documents")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{MaxDocumentBytes: 8})
	_, err := c.Recognize(context.Background(), "big.png", strings.NewReader("way more than eight bytes"))

	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestRecognize_RetriesRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, "too many concurrent connections")
			return
		}
		fmt.Fprint(w, successBody(sampleText))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{MaxRetries: 3})
	text, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("img"))

	require.NoError(t, err)
	assert.Equal(t, sampleText, text)
	assert.Equal(t, 3, attempts)
}

func TestRecognize_RateLimitExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "too many concurrent connections")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{MaxRetries: 2})
	_, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("img"))

	require.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestRecognize_FailsOverToFallbackKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		key := r.FormValue("apikey")
		keys = append(keys, key)
		if key == "primary-key" {
			fmt.Fprint(w, `{"ParsedResults":[],"OCRExitCode":99,"IsErroredOnProcessing":true,"ErrorMessage":["Invalid API key"]}`)
			return
		}
		fmt.Fprint(w, successBody(sampleText))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{FallbackAPIKey: "secondary-key"})
	text, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("img"))

	require.NoError(t, err)
	assert.Equal(t, sampleText, text)
	assert.Equal(t, []string{"primary-key", "secondary-key"}, keys)
}

func TestRecognize_InvalidKeyWithoutFallbackIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults":[],"OCRExitCode":99,"IsErroredOnProcessing":true,"ErrorMessage":"Invalid API key"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{})
	_, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("img"))

	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRecognize_NearEmptyTextIsNoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successBody("  x  "))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{})
	_, err := c.Recognize(context.Background(), "blurry.jpg", strings.NewReader("img"))

	require.ErrorIs(t, err, ErrNoText)
}

func TestRecognize_NoParsedResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults":[],"OCRExitCode":1,"IsErroredOnProcessing":false}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{})
	_, err := c.Recognize(context.Background(), "report.jpg", strings.NewReader("img"))

	require.ErrorIs(t, err, ErrNoText)
}

func TestRecognize_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "too many concurrent connections")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, Config{MaxRetries: 3, Backoff: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Recognize(ctx, "report.jpg", strings.NewReader("img"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
