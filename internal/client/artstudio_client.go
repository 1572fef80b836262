package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cratescan/api/internal/config"
)

// ArtGenerator defines the interface for image generation operations
type ArtGenerator interface {
	GenerateStyles(ctx context.Context, req *GenerateStylesRequest) (*GenerateStylesResponse, error)
	GenerateDesign(ctx context.Context, req *GenerateDesignRequest) (*GenerateDesignResponse, error)
}

// ArtStudioClient implements ArtGenerator for the ArtStudio service
type ArtStudioClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// GenerateStylesRequest asks for one artistic variant per listed style
type GenerateStylesRequest struct {
	SourceURL string   `json:"source_url"`
	Styles    []string `json:"styles"`
}

// GenerateStylesResponse carries the generated variants
type GenerateStylesResponse struct {
	Artifacts []ArtifactPayload `json:"artifacts"`
}

// GenerateDesignRequest asks for a single product design derived from the source photo
type GenerateDesignRequest struct {
	SourceURL string `json:"source_url"`
	Kind      string `json:"kind"`
	Prompt    string `json:"prompt,omitempty"`
	Upscale   bool   `json:"upscale,omitempty"`
}

// GenerateDesignResponse carries the generated design, if any
type GenerateDesignResponse struct {
	Artifact *ArtifactPayload `json:"artifact"`
}

// ArtifactPayload is one generated image as returned by ArtStudio
type ArtifactPayload struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

// NewArtStudioClient creates a new ArtStudio API client
func NewArtStudioClient(cfg *config.ArtStudioConfig) *ArtStudioClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ArtStudioClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// GenerateStyles requests a set of style variants for a source image
func (c *ArtStudioClient) GenerateStyles(ctx context.Context, req *GenerateStylesRequest) (*GenerateStylesResponse, error) {
	var result GenerateStylesResponse
	if err := c.post(ctx, "/v1/styles/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateDesign requests a single product design for a source image
func (c *ArtStudioClient) GenerateDesign(ctx context.Context, req *GenerateDesignRequest) (*GenerateDesignResponse, error) {
	var result GenerateDesignResponse
	if err := c.post(ctx, "/v1/designs/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends a POST request with JSON body
func (c *ArtStudioClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// doRequest executes an HTTP request and parses the response
func (c *ArtStudioClient) doRequest(req *http.Request, result interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[ArtStudio] → %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ArtStudio] ✗ %s %s — request failed: %v", req.Method, req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[ArtStudio] ← %d %s %s", resp.StatusCode, req.Method, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("artstudio API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// IsConfigured returns true if the client has valid configuration
func (c *ArtStudioClient) IsConfigured() bool {
	return c.apiKey != ""
}
