package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaClient talks to a local Ollama server for chat completion and
// embeddings. An empty base URL leaves the client unconfigured and every
// caller is expected to degrade gracefully.
type OllamaClient struct {
	baseURL    string
	chatModel  string
	embedModel string
	client     *http.Client
}

type OllamaConfig struct {
	BaseURL    string
	ChatModel  string
	EmbedModel string
	Timeout    time.Duration
}

func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.ChatModel == "" {
		cfg.ChatModel = "llama3.2"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = cfg.ChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &OllamaClient{
		baseURL:    cfg.BaseURL,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *OllamaClient) IsConfigured() bool {
	return c != nil && c.baseURL != ""
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Error   string  `json:"error,omitempty"`
}

// Chat sends a chat request and returns the assistant message content.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("ollama client not configured")
	}

	req := chatRequest{
		Model:    c.chatModel,
		Messages: messages,
		Stream:   false,
	}
	req.Options.Temperature = temperature

	var resp chatResponse
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", resp.Error)
	}
	return resp.Message.Content, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// Embed returns one embedding vector per input text.
func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("ollama client not configured")
	}

	req := embedRequest{Model: c.embedModel, Input: texts}

	var resp embedResponse
	if err := c.post(ctx, "/api/embed", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama embed: %s", resp.Error)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

func (c *OllamaClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
