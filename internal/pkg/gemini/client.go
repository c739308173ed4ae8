// Package gemini edits images through the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash-image"
)

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 4 << 10

// KeyFunc returns the current credential; an empty string means none is configured.
type KeyFunc func() string

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements a single-call image edit over generateContent.
type Client struct {
	baseURL string
	model   string
	key     KeyFunc
	client  *http.Client
}

func NewClient(cfg Config, key KeyFunc) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		key:     key,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// MaskInstruction wraps prompt so the model confines the edit to the mask.
func MaskInstruction(prompt string) string {
	return fmt.Sprintf("Using the provided mask, apply the following instruction only to the masked area of the original image: \"%s\". The masked area is where you should perform the edit. Return the fully edited image.", prompt)
}

// Edit sends image, prompt and optional mask and returns the edited image bytes.
func (c *Client) Edit(ctx context.Context, image *entity.Raster, prompt string, mask *entity.Raster) ([]byte, error) {
	apiKey := ""
	if c.key != nil {
		apiKey = strings.TrimSpace(c.key())
	}
	if apiKey == "" {
		return nil, entity.ErrConfiguration
	}

	parts := []geminiPart{inline(image)}
	if mask != nil {
		parts = append(parts, inline(mask), geminiPart{Text: MaskInstruction(prompt)})
	} else {
		parts = append(parts, geminiPart{Text: prompt})
	}

	payload := geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{ResponseModalities: []string{"IMAGE"}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", entity.ErrRemote, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRemote, err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRemote, redactKey(err.Error(), apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp, errorBody)
	}

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", entity.ErrRemote, err)
	}
	return extractImage(response)
}

func statusError(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		strings.Contains(string(body), "API key not valid") {
		return fmt.Errorf("%w: %s", entity.ErrAuth, resp.Status)
	}
	return fmt.Errorf("%w: gemini error: %s - %s", entity.ErrRemote, resp.Status, strings.TrimSpace(string(body)))
}

func extractImage(response geminiResponse) ([]byte, error) {
	if len(response.Candidates) == 0 {
		return nil, entity.ErrEmptyResponse
	}
	for _, part := range response.Candidates[0].Content.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: decode image payload: %v", entity.ErrRemote, err)
		}
		return data, nil
	}
	return nil, entity.ErrEmptyResponse
}

func inline(r *entity.Raster) geminiPart {
	return geminiPart{InlineData: &geminiBlob{
		MimeType: r.Encoding,
		Data:     base64.StdEncoding.EncodeToString(r.PixelData),
	}}
}

func redactKey(msg, key string) string {
	return strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}
