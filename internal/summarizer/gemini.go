package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eltonkola/bleta/internal/retry"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// maxInputRunes caps the article text sent to the API.
const maxInputRunes = 4000

// GeminiSummarizer calls the Gemini generateContent REST API per article.
type GeminiSummarizer struct {
	apiKey         string
	model          string
	maxTokens      int
	temperature    float64
	promptTemplate string
	baseURL        string
	client         *http.Client
	retryCfg       retry.Config
}

func NewGeminiSummarizer(apiKey, model string, maxTokens int, temperature float64, promptTemplate string) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey:         apiKey,
		model:          model,
		maxTokens:      maxTokens,
		temperature:    temperature,
		promptTemplate: promptTemplate,
		baseURL:        defaultGeminiBaseURL,
		client:         &http.Client{Timeout: 60 * time.Second},
		retryCfg:       retry.DefaultConfig(),
	}
}

// Gemini API request/response types

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, text, language string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("gemini: nothing to summarize")
	}

	prompt := s.buildPrompt(text, language)

	var summary string
	err := retry.WithBackoff(ctx, s.retryCfg, func(ctx context.Context) error {
		var callErr error
		summary, callErr = s.callAPI(ctx, prompt)
		return callErr
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(summary), nil
}

func (s *GeminiSummarizer) buildPrompt(text, language string) string {
	runes := []rune(text)
	if len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	prompt := strings.ReplaceAll(s.promptTemplate, "{language}", language)
	return strings.ReplaceAll(prompt, "{text}", text)
}

func (s *GeminiSummarizer) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: s.maxTokens,
			Temperature:     s.temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("gemini: failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("gemini: API error status %d: %s - %s", apiResp.Error.Code, apiResp.Error.Status, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
