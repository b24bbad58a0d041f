// Package remote resolves workspace records by calling the point-lookup
// endpoint of a peer instance of this service.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/workspace-api/internal/api/shared"
	"github.com/phrazzld/workspace-api/internal/domain"
)

// DefaultTimeout bounds a lookup when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for logging.
const maxErrorBody = 512

// maxNotFoundBody caps how much of a 404 response is decoded.
const maxNotFoundBody = 4 << 10

type recordResponse struct {
	Name string `json:"Name"`
}

// Client performs record lookups against a peer's
// GET /api/v1/workspaces/{id} endpoint.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the peer at baseURL.
func NewClient(baseURL string, client *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid peer url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid peer url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: u,
		client:  client,
		logger:  logger.With("component", "remote_lookup", "peer", u.Host),
	}, nil
}

// LookupRecord fetches the record with the given id from the peer. A 404
// carrying the service's error body is reported as a NotFound service
// error; any other failure, including a 404 from an unknown route, is an
// Internal service error.
func (c *Client) LookupRecord(ctx context.Context, id int64) (*domain.Record, error) {
	endpoint := c.baseURL.JoinPath("api", "v1", "workspaces", strconv.FormatInt(id, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, domain.NewInternalError("failed to build peer request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewInternalError("peer lookup cancelled", err)
		}
		return nil, domain.NewInternalError("peer lookup failed", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("failed to close peer response body", "error", cerr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		if isRecordNotFound(resp.Body) {
			return nil, domain.NewNotFoundError(id)
		}
		return nil, domain.NewInternalError("peer lookup failed",
			fmt.Errorf("peer route %s not found", endpoint.Path))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewInternalError("peer lookup failed",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload recordResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.NewInternalError("failed to decode peer response", err)
	}

	record, err := domain.NewRecord(id, payload.Name)
	if err != nil {
		return nil, domain.NewInternalError("peer returned an invalid record", err)
	}
	return record, nil
}

// isRecordNotFound reports whether body is the peer's own not-found error
// response rather than a 404 for an unknown route.
func isRecordNotFound(body io.Reader) bool {
	var errResp shared.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxNotFoundBody)).Decode(&errResp); err != nil {
		return false
	}
	return errResp.Status == http.StatusNotFound && errResp.Error != ""
}
