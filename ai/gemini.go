// Package ai talks to the Gemini REST API for the dashboard's inquiry
// analysis and admin chat endpoints.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	chatMaxTokens  = 500
)

var ErrNotConfigured = errors.New("gemini api key is not configured")

type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewClientFromEnv builds a client from GEMINI_API_KEY, GEMINI_MODEL and
// GEMINI_API_BASE_URL. Returns nil when no key is set; callers treat a nil
// client as "feature off".
func NewClientFromEnv() *Client {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends one prompt and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if maxOutputTokens > 0 {
		reqBody.GenerationConfig = &generationConfig{MaxOutputTokens: maxOutputTokens}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("gemini response decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("gemini error %d: %s", out.Error.Code, out.Error.Message)
		}
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// AnalyzeInquiry summarizes a parent inquiry and drafts a suggested reply.
func (c *Client) AnalyzeInquiry(ctx context.Context, message string) (string, error) {
	prompt := fmt.Sprintf(`Analyze this parent inquiry and provide a 2-sentence summary and a professional suggested reply: %q. You are a helpful school administrative assistant. Keep your analysis concise and your suggested replies warm and professional.`, message)
	return c.GenerateContent(ctx, prompt, 0)
}

// Chat answers a free-form admin question with dashboard context attached.
func (c *Client) Chat(ctx context.Context, prompt string, chatContext string) (string, error) {
	if chatContext == "" {
		chatContext = "General admin dashboard interaction."
	}
	systemInstruction := fmt.Sprintf(`You are a professional administrative assistant for RightTutor.
Context: %s
Tone: Helpful, direct, and concise.
Goal: Answer administrative questions, summarize data, or help with scheduling.`, chatContext)

	return c.GenerateContent(ctx, systemInstruction+"\n\nUser Question: "+prompt, chatMaxTokens)
}
