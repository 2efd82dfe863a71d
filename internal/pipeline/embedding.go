package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
)

// EmbeddingClient generates text embeddings from a configurable provider
// endpoint. Generalized from the teacher's hard-coded VoyageAI client
// (internal/processor/embedding.go) to the provider-agnostic shape
// spec.md §6's "optional embedding config" calls for: same request/response
// envelope, same truncate-then-post-then-parse flow, just no fixed model
// name or base URL.
type EmbeddingClient struct {
	provider   string
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

const embeddingMaxChars = 16000

// NewEmbeddingClient returns a client for provider at baseURL using model,
// authenticated with apiKey. A VoyageAI-shaped default baseURL/model is
// used when either is left blank, since that's the only provider the
// pack's teacher talks to.
func NewEmbeddingClient(provider, baseURL, model, apiKey string) (*EmbeddingClient, error) {
	if apiKey == "" {
		return nil, kerrors.NewValidationError("", "embedding provider API key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.voyageai.com/v1/embeddings"
	}
	if model == "" {
		model = "voyage-3"
	}
	if provider == "" {
		provider = "voyageai"
	}
	return &EmbeddingClient{
		provider:   provider,
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed generates one embedding vector for text, truncating to the
// provider's approximate token budget the same way the teacher's client
// does.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, kerrors.NewValidationError("", "cannot embed empty text")
	}
	if len(text) > embeddingMaxChars {
		text = text[:embeddingMaxChars]
	}

	body, err := json.Marshal(embeddingRequest{Input: text, Model: c.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, kerrors.NewAPICallFailedError("", c.provider, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, kerrors.NewAPICallFailedError("", c.provider, fmt.Errorf("status %d: %s", resp.StatusCode, string(payload)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, kerrors.NewAPICallFailedError("", c.provider, fmt.Errorf("no vectors in response"))
	}
	return parsed.Data[0].Embedding, nil
}
