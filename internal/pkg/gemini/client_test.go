package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	photo = &entity.Raster{PixelData: []byte("photo-bytes"), Encoding: "image/jpeg"}
	brush = &entity.Raster{PixelData: []byte("mask-bytes"), Encoding: "image/png"}
)

func newTestClient(server *httptest.Server, key string) *Client {
	return &Client{
		baseURL: server.URL,
		model:   DefaultModel,
		key:     func() string { return key },
		client:  server.Client(),
	}
}

func imageResponse(data []byte) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{
				map[string]any{"text": "here you go"},
				map[string]any{"inlineData": map[string]any{
					"mimeType": "image/png",
					"data":     base64.StdEncoding.EncodeToString(data),
				}},
			}},
		}},
	})
	return string(body)
}

func TestEditSendsWholeImageRequest(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(imageResponse([]byte("edited"))))
	}))
	defer server.Close()

	out, err := newTestClient(server, "secret").Edit(context.Background(), photo, "make walls blue", nil)

	require.NoError(t, err)
	assert.Equal(t, []byte("edited"), out)
	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(photo.PixelData), parts[0].InlineData.Data)
	assert.Equal(t, "make walls blue", parts[1].Text)
	assert.Equal(t, []string{"IMAGE"}, got.GenerationConfig.ResponseModalities)
}

func TestEditSendsMaskInBand(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(imageResponse([]byte("edited"))))
	}))
	defer server.Close()

	_, err := newTestClient(server, "secret").Edit(context.Background(), photo, "blue sofa", brush)

	require.NoError(t, err)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, MaskInstruction("blue sofa"), parts[2].Text)
	assert.Contains(t, parts[2].Text, `"blue sofa"`)
}

func TestEditWithoutKeyMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newTestClient(server, "  ").Edit(context.Background(), photo, "anything", nil)

	assert.ErrorIs(t, err, entity.ErrConfiguration)
	assert.Zero(t, calls.Load())
}

func TestEditErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: entity.ErrAuth},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, wantErr: entity.ErrAuth},
		{name: "invalid key message", status: http.StatusBadRequest, body: `{"error":{"message":"API key not valid. Please pass a valid API key."}}`, wantErr: entity.ErrAuth},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, wantErr: entity.ErrRemote},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `slow down`, wantErr: entity.ErrRemote},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: entity.ErrEmptyResponse},
		{name: "text only", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"I can't"}]}}]}`, wantErr: entity.ErrEmptyResponse},
		{name: "garbled json", status: http.StatusOK, body: `{"candidates":`, wantErr: entity.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server, "secret").Edit(context.Background(), photo, "p", nil)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantErr.Error(), entity.UserMessage(err))
		})
	}
}

func TestEditNetworkFailureIsRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server, "secret")
	server.Close()

	_, err := client.Edit(context.Background(), photo, "p", nil)

	assert.ErrorIs(t, err, entity.ErrRemote)
	assert.NotContains(t, err.Error(), "secret")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://example.test/"}, nil)

	assert.Equal(t, "http://example.test", c.baseURL)
	assert.Equal(t, DefaultModel, c.model)
	_, err := c.Edit(context.Background(), photo, "p", nil)
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}
