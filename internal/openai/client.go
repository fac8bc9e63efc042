package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal OpenAI REST client covering the two capabilities the
// triage pipeline needs: structured classification via the Responses API and
// audio/video transcription.
type Client struct {
	BaseURL         string
	APIKey          string
	Model           string
	TranscribeModel string
	HTTPClient      *http.Client
}

func NewClient(baseURL, apiKey, model, transcribeModel string) *Client {
	return &Client{
		BaseURL:         strings.TrimRight(baseURL, "/"),
		APIKey:          apiKey,
		Model:           model,
		TranscribeModel: transcribeModel,
		HTTPClient:      &http.Client{Timeout: 120 * time.Second},
	}
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	OutputText string `json:"output_text,omitempty"`
}

// GenerateJSON sends one system instruction plus user text parts and asks for
// a strict json_schema response. The returned bytes are the raw model output;
// callers own parsing and any degradation on malformed output.
func (c *Client) GenerateJSON(ctx context.Context, system string, userParts []string, schemaName string, schema map[string]any) ([]byte, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}

	user := inputMessage{Role: "user"}
	for _, p := range userParts {
		user.Content = append(user.Content, contentPart{Type: "input_text", Text: p})
	}

	reqBody := responsesRequest{
		Model: c.Model,
		Input: []inputMessage{
			{Role: "system", Content: []contentPart{{Type: "input_text", Text: system}}},
			user,
		},
	}
	reqBody.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/responses", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai http error: %s: %s", resp.Status, truncate(string(raw), 500))
	}

	var res responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return []byte(extractOutputText(res)), nil
}

// Transcribe uploads one media payload to the transcription endpoint and
// returns the plain-text transcript.
func (c *Client) Transcribe(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("openai api key is not set")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("model", c.TranscribeModel); err != nil {
		return "", err
	}
	if err := w.WriteField("response_format", "text"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription http error: %s: %s", resp.Status, truncate(string(raw), 500))
	}
	return strings.TrimSpace(string(raw)), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func extractOutputText(res responsesResponse) string {
	if res.OutputText != "" {
		return res.OutputText
	}
	var out strings.Builder
	for _, item := range res.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
