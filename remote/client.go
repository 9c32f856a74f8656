package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"modfinder/config"
	"modfinder/mod"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client fetches the mod catalog and mod archives.
type Client struct {
	CatalogURL string
	UserAgent  string
	HTTPClient *http.Client
	// DownloadClient has no overall timeout, archives can be large.
	DownloadClient *http.Client
}

// NewClient creates a new client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}

	return &Client{
		CatalogURL: cfg.CatalogURL,
		UserAgent:  cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		DownloadClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   20 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}, nil
}

func (c *Client) makeRequest(ctx context.Context, fullURL string, target interface{}, isBinary bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	httpClient := c.HTTPClient
	if isBinary {
		req.Header.Set("Accept", "application/octet-stream")
		httpClient = c.DownloadClient
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return resp, fmt.Errorf("request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Binary bodies are left open for the caller
	if target != nil && !isBinary {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp, fmt.Errorf("failed to decode json response: %w", err)
		}
	}

	return resp, nil
}

// Catalog is the document served at the catalog URL.
type Catalog struct {
	Mods []mod.Manifest `json:"mods"`
}

// GetCatalog retrieves the manifests of every mod in the catalog.
func (c *Client) GetCatalog(ctx context.Context) ([]mod.Manifest, error) {
	if c.CatalogURL == "" {
		return nil, fmt.Errorf("CATALOG_URL is not configured")
	}

	var catalog Catalog
	if _, err := c.makeRequest(ctx, c.CatalogURL, &catalog, false); err != nil {
		return nil, fmt.Errorf("failed to get catalog from %s: %w", c.CatalogURL, err)
	}
	return catalog.Mods, nil
}

// DownloadFile downloads the file at downloadURL and saves it to destinationPath.
func (c *Client) DownloadFile(ctx context.Context, log *zap.SugaredLogger, destinationPath, downloadURL string) error {
	dir := filepath.Dir(destinationPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory '%s': %w", dir, err)
	}

	resp, err := c.makeRequest(ctx, downloadURL, nil, true)
	if err != nil {
		return fmt.Errorf("failed to start download from %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	outFile, err := os.Create(destinationPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", destinationPath, err)
	}

	written, err := saveBody(outFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write downloaded content to '%s': %w", destinationPath, err)
	}

	log.Infow("Downloaded file", zap.String("url", downloadURL), zap.String("size", humanize.Bytes(uint64(written))))
	return nil
}

// saveBody copies body into dst and closes it. A failed close is reported,
// since the file may be missing data that was never flushed.
func saveBody(dst io.WriteCloser, body io.Reader) (int64, error) {
	written, err := io.Copy(dst, body)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
