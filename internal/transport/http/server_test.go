package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatpdf/internal/bootstrap"
	"chatpdf/internal/config"
	"chatpdf/internal/pkg/pdfextract/pdftest"
)

type llmRecorder struct {
	mu      sync.Mutex
	prompts []string
}

func (l *llmRecorder) handler(t *testing.T) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode llm request failed: %v", err)
			w.WriteHeader(nethttp.StatusBadRequest)
			return
		}
		user := req.Messages[len(req.Messages)-1].Content
		l.mu.Lock()
		l.prompts = append(l.prompts, user)
		l.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "model=" + req.Model}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) (*gin.Engine, *llmRecorder) {
	t.Helper()
	recorder := &llmRecorder{}
	llm := httptest.NewServer(recorder.handler(t))
	t.Cleanup(llm.Close)

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>chat</html>"), 0o600))

	cfg := &config.Config{
		App:    config.AppConfig{Name: "chatpdf", Env: "test", Host: "127.0.0.1", Port: 5000, GinMode: gin.TestMode, WebDir: webDir},
		LLM:    config.LLMConfig{BaseURL: llm.URL, APIKey: "k", Model: "test-model", TimeoutSeconds: 5},
		Store:  config.StoreConfig{Backend: config.StoreBackendMemory},
		Upload: config.UploadConfig{Dir: filepath.Join(t.TempDir(), "uploads"), ExtractTimeoutSeconds: 5},
		Client: config.ClientConfig{RequestTimeoutMS: 1000},
		Log:    config.LogConfig{Level: "error"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	application, err := bootstrap.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	return NewRouter(application), recorder
}

func uploadPDF(t *testing.T, router *gin.Engine, filename string, pdf []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(pdf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func ask(router *gin.Engine, filename, question string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"question": question, "filename": filename})
	req := httptest.NewRequest(nethttp.MethodPost, "/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndAskEndToEnd(t *testing.T) {
	router, llm := newTestApp(t, nil)

	rec := uploadPDF(t, router, "handbook.pdf", pdftest.Build("Vacation policy: 25 days per year."))
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Upload successful","filename":"handbook.pdf"}`, rec.Body.String())

	rec = ask(router, "handbook.pdf", "How many vacation days?")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"model=test-model"}`, rec.Body.String())

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "Document: "))
	assert.Contains(t, llm.prompts[0], "Vacation policy: 25 days per year.")
	assert.True(t, strings.HasSuffix(llm.prompts[0], "\n\nQuestion: How many vacation days?"))
}

func TestUploadMalformedPDF(t *testing.T) {
	router, _ := newTestApp(t, nil)

	rec := uploadPDF(t, router, "broken.pdf", []byte("definitely not a pdf"))
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error processing PDF"}`, rec.Body.String())
}

func TestUploadEmptyFile(t *testing.T) {
	router, llm := newTestApp(t, nil)

	rec := uploadPDF(t, router, "empty.pdf", []byte{})
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error processing PDF"}`, rec.Body.String())

	rec = ask(router, "empty.pdf", "what is inside?")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"PDF not found"}`, rec.Body.String())
	assert.Empty(t, llm.prompts)
}

func TestAskNeverUploaded(t *testing.T) {
	router, llm := newTestApp(t, nil)

	for _, q := range []string{"", "anything", "summarize"} {
		rec := ask(router, "ghost.pdf", q)
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"PDF not found"}`, rec.Body.String())
	}
	assert.Empty(t, llm.prompts)
}

func TestConcurrentAsksKeepDocumentsApart(t *testing.T) {
	router, llm := newTestApp(t, nil)
	require.Equal(t, nethttp.StatusOK, uploadPDF(t, router, "red.pdf", pdftest.Build("RED-DOCUMENT")).Code)
	require.Equal(t, nethttp.StatusOK, uploadPDF(t, router, "blue.pdf", pdftest.Build("BLUE-DOCUMENT")).Code)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "red.pdf"
			if i%2 == 1 {
				name = "blue.pdf"
			}
			rec := ask(router, name, fmt.Sprintf("%s question %d", name, i))
			assert.Equal(t, nethttp.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	require.Len(t, llm.prompts, 20)
	for _, prompt := range llm.prompts {
		switch {
		case strings.Contains(prompt, "red.pdf question"):
			assert.Contains(t, prompt, "RED-DOCUMENT")
			assert.NotContains(t, prompt, "BLUE-DOCUMENT")
		case strings.Contains(prompt, "blue.pdf question"):
			assert.Contains(t, prompt, "BLUE-DOCUMENT")
			assert.NotContains(t, prompt, "RED-DOCUMENT")
		default:
			t.Fatalf("unexpected prompt: %q", prompt)
		}
	}
}

func TestRedisBackedStore(t *testing.T) {
	mr := miniredis.RunT(t)
	router, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Store.Backend = config.StoreBackendRedis
		cfg.Store.KeyPrefix = "e2e:"
		cfg.Redis.Addr = mr.Addr()
	})

	require.Equal(t, nethttp.StatusOK, uploadPDF(t, router, "shared.pdf", pdftest.Build("shared text")).Code)
	assert.True(t, mr.Exists("e2e:shared.pdf"))
	assert.Equal(t, nethttp.StatusOK, ask(router, "shared.pdf", "q").Code)

	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"redis"`)
}

func TestAuxiliaryRoutes(t *testing.T) {
	router, _ := newTestApp(t, nil)

	cases := []struct {
		path     string
		contains string
	}{
		{"/", "<html>chat</html>"},
		{"/client-config", `"ask_url":"/ask"`},
		{"/healthz", `"document_store":{"ok":true,"backend":"memory"}`},
		{"/metrics", "chatpdf_http_requests_total"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(nethttp.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, nethttp.StatusOK, rec.Code, tc.path)
		assert.Contains(t, rec.Body.String(), tc.contains, tc.path)
	}
}

func TestRequestIDAndCORSHeaders(t *testing.T) {
	router, _ := newTestApp(t, nil)

	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
