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

// ProductRegistrar defines the interface for product creation operations
type ProductRegistrar interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error)
}

// PrinthouseClient implements ProductRegistrar for the Printhouse
// print-on-demand API
type PrinthouseClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	shopID     string
}

// CreateProductRequest registers a product built from generated artifacts
type CreateProductRequest struct {
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ImageURLs   []string `json:"image_urls"`
}

// CreateProductResponse carries the registered product identifiers.
// Single-design products return one id; collections return one per variant.
type CreateProductResponse struct {
	ProductIDs []string `json:"product_ids"`
}

// NewPrinthouseClient creates a new Printhouse API client
func NewPrinthouseClient(cfg *config.PrinthouseConfig) *PrinthouseClient {
	return &PrinthouseClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		shopID:  cfg.ShopID,
	}
}

// CreateProduct registers a new product in the shop
func (c *PrinthouseClient) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	endpoint := fmt.Sprintf("/v1/shops/%s/products", c.shopID)
	var result CreateProductResponse
	if err := c.post(ctx, endpoint, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends a POST request with JSON body
func (c *PrinthouseClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[Printhouse] → POST %s", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Printhouse] ✗ POST %s — request failed: %v", req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Printhouse] ← %d POST %s", resp.StatusCode, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("printhouse API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// IsConfigured returns true if the client has valid configuration
func (c *PrinthouseClient) IsConfigured() bool {
	return c.apiKey != "" && c.shopID != ""
}
