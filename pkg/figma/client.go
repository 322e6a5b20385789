package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	figmaAPIBase = "https://api.figma.com/v1"
)

// Client represents a Figma API client with configured HTTP settings for
// communicating with the Figma REST API.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Figma API client with the provided personal access token.
// The client is configured with connection pooling, disabled HTTP/2 (for large
// file stability), and a 10-minute timeout for very large documents.
func NewClient(accessToken string, opts ...Option) *Client {
	// Configure transport for better handling of large files
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     figmaAPIBase,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

var fileKeyRe = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|$)`)

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// Returns an error if the URL format is invalid or if the URL doesn't match the expected Figma domain pattern.
func ExtractFileKey(figmaURL string) (string, error) {
	// Anchored to ensure the entire URL matches the expected pattern and prevent bypass attacks.
	matches := fileKeyRe.FindStringSubmatch(figmaURL)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}

	return matches[1], nil
}

// GetFile retrieves the complete file document tree from the Figma API.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	if err := c.get(ctx, "/files/"+url.PathEscape(fileKey), nil, &fileResp); err != nil {
		return nil, err
	}

	return &fileResp, nil
}

// GetImages asks the render API for a temporary download URL per node id,
// rendered in the given format ("jpg", "png", "svg" or "pdf") and scale.
// Nodes that could not be rendered map to an empty URL.
func (c *Client) GetImages(ctx context.Context, fileKey string, ids []string, format string, scale float64) (*ImagesResponse, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("format", format)
	query.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))

	var imgResp ImagesResponse
	if err := c.get(ctx, "/images/"+url.PathEscape(fileKey), query, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != "" {
		return nil, fmt.Errorf("render request failed: %s", imgResp.Err)
	}

	return &imgResp, nil
}

// get issues an authenticated GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Figma-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// APIError is returned when the Figma API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
