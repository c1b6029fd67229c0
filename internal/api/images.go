package api

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/thesavant42/fluxgallery/internal/models"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL is the image service the web gallery talks to
	DefaultBaseURL = "https://flux-api.up.railway.app/api"
	DefaultTimeout = 30 * time.Second
	userAgent      = "fluxgallery/1.0"
)

// ImageClient talks to the image collection endpoint
type ImageClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewImageClient creates a client for baseURL. A zero timeout uses DefaultTimeout.
// logger may be nil.
func NewImageClient(baseURL string, timeout time.Duration, logger *log.Logger) *ImageClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ImageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchAll reads the whole image collection in server order.
// Any failure is wrapped in ErrFetch and no partial result is returned.
func (c *ImageClient) FetchAll(ctx context.Context) ([]models.ImageRecord, error) {
	endpoint := c.baseURL + "/images"

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError("Request failed", req, err)
		return nil, fmt.Errorf("%w: request failed: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logError("API error", req, fmt.Errorf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: image API returned status %d: %s", ErrFetch, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Go only decompresses transparently when it set Accept-Encoding itself
	var reader io.Reader = resp.Body
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Encoding")), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create gzip reader: %w", ErrFetch, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrFetch, err)
	}

	records, err := ParseImagesFromJSON(body)
	if err != nil {
		c.logError("Decode failed", req, err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if c.logger != nil {
		undated := 0
		for _, r := range records {
			if r.CreatedAt.IsZero() {
				undated++
			}
		}
		if undated > 0 {
			c.logger.Warn("Images without a usable timestamp", "count", undated)
		}
		c.logger.Info("Images fetched", "count", len(records), "request_id", req.Header.Get("X-Request-ID"))
	}

	return records, nil
}

// DeleteByID deletes one image on the server. An empty token fails with
// ErrUnauthorized before any request is made.
func (c *ImageClient) DeleteByID(ctx context.Context, token string, id int64) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: no credential for delete", ErrUnauthorized)
	}

	endpoint := c.baseURL + "/images/" + strconv.FormatInt(id, 10)
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError("Request failed", req, err)
		return fmt.Errorf("%w: delete image %d: %w", ErrNetwork, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if c.logger != nil {
			c.logger.Info("Image deleted", "id", id, "request_id", req.Header.Get("X-Request-ID"))
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logError("Delete rejected", req, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: image API returned status %d", ErrUnauthorized, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: image %d", ErrNotFound, id)
	default:
		return fmt.Errorf("%w: image API returned status %d", ErrNetwork, resp.StatusCode)
	}
}

func (c *ImageClient) newRequest(ctx context.Context, method, endpoint, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.logger != nil {
		c.logger.Debug(method, "endpoint", endpoint, "request_id", req.Header.Get("X-Request-ID"))
	}
	return req, nil
}

func (c *ImageClient) logError(msg string, req *http.Request, err error) {
	if c.logger == nil {
		return
	}
	// cancellations come from teardown, not from the service
	if errors.Is(err, context.Canceled) {
		c.logger.Debug(msg, "method", req.Method, "url", req.URL.String(), "error", err)
		return
	}
	c.logger.Error(msg, "method", req.Method, "url", req.URL.String(), "request_id", req.Header.Get("X-Request-ID"), "error", err)
}

// ServiceLabel returns the registrable domain of baseURL for display,
// e.g. "https://api.example.co.uk/v1" -> "example.co.uk".
// Falls back to the host when the public suffix lookup fails.
func ServiceLabel(baseURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Hostname() == "" {
		return baseURL
	}
	host := strings.TrimSuffix(parsed.Hostname(), ".")
	if net.ParseIP(host) != nil {
		return parsed.Host
	}

	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}
