package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	ProviderTGI    = "tgi"
	ProviderGemini = "gemini"
)

var (
	ErrUnknownProvider = errors.New("unknown assistant provider")
	ErrEmptyGeneration = errors.New("model returned no text")
)

type Config struct {
	Provider  string
	Endpoint  string
	Model     string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

// ConfigFromEnv reads ASSISTANT_PROVIDER, MODEL_ENDPOINT, MODEL_NAME,
// GEMINI_API_KEY and ASSISTANT_MAX_TOKENS.
func ConfigFromEnv() Config {
	maxTokens, err := strconv.Atoi(os.Getenv("ASSISTANT_MAX_TOKENS"))
	if err != nil || maxTokens <= 0 {
		maxTokens = 200
	}
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("ASSISTANT_PROVIDER")))
	if provider == "" {
		provider = ProviderTGI
	}
	return Config{
		Provider:  provider,
		Endpoint:  strings.TrimRight(os.Getenv("MODEL_ENDPOINT"), "/"),
		Model:     os.Getenv("MODEL_NAME"),
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		MaxTokens: maxTokens,
		Timeout:   30 * time.Second,
	}
}

// Enabled reports whether cfg names a reachable model.
func (c Config) Enabled() bool {
	if c.Provider == ProviderGemini {
		return c.APIKey != ""
	}
	return c.Endpoint != ""
}

// NewGenerator builds the generator named by cfg.Provider.
func NewGenerator(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderTGI, "":
		return NewTGI(cfg), nil
	case ProviderGemini:
		return NewGemini(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

// TGIGenerator calls a text-generation-inference style /generate endpoint
// serving the fine-tuned model.
type TGIGenerator struct {
	cfg    Config
	client *http.Client
}

func NewTGI(cfg Config) *TGIGenerator {
	return &TGIGenerator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type tgiRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters tgiParameters `json:"parameters"`
}

type tgiParameters struct {
	MaxNewTokens      int `json:"max_new_tokens"`
	NoRepeatNgramSize int `json:"no_repeat_ngram_size"`
}

func (g *TGIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(tgiRequest{
		Inputs:     prompt,
		Parameters: tgiParameters{MaxNewTokens: g.cfg.MaxTokens, NoRepeatNgramSize: 2},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	raw, err := post(ctx, g.client, g.cfg.Endpoint+"/generate", body)
	if err != nil {
		return "", err
	}
	// single input responses come back as an object or a one element array
	text := gjson.GetBytes(raw, "generated_text")
	if !text.Exists() {
		text = gjson.GetBytes(raw, "0.generated_text")
	}
	if !text.Exists() {
		return "", ErrEmptyGeneration
	}
	return text.String(), nil
}

// GeminiGenerator calls the Gemini generateContent REST API.
type GeminiGenerator struct {
	cfg    Config
	client *http.Client
}

func NewGemini(cfg Config) *GeminiGenerator {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &GeminiGenerator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	req.GenerationConfig.MaxOutputTokens = g.cfg.MaxTokens
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.cfg.Endpoint, g.cfg.Model, url.QueryEscape(g.cfg.APIKey))
	raw, err := post(ctx, g.client, endpoint, body)
	if err != nil {
		return "", err
	}
	if msg := gjson.GetBytes(raw, "error.message"); msg.Exists() {
		return "", fmt.Errorf("gemini error %d: %s", gjson.GetBytes(raw, "error.code").Int(), msg.String())
	}
	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", ErrEmptyGeneration
	}
	return text.String(), nil
}

func post(ctx context.Context, client *http.Client, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
