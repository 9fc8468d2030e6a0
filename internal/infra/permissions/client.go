package permissions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	httpclient "github.com/orderhub/authz-gateway/pkg/http"
	"github.com/orderhub/authz-gateway/pkg/logger"
)

var (
	// ErrNotFound indicates the service holds no record for the principal.
	ErrNotFound = errors.New("permission record not found")
	// ErrLookupFailed covers transport errors, non-success responses and
	// malformed payloads.
	ErrLookupFailed = errors.New("permission lookup failed")
)

// Resolver resolves a principal id to its permission record. The lookup is
// idempotent and performs no retries; retry and caching policy belong to the
// caller.
type Resolver interface {
	Resolve(ctx context.Context, principalID string) (*Record, error)
}

type client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) Resolver {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
	}
}

func (c *client) Resolve(ctx context.Context, principalID string) (*Record, error) {
	if principalID == "" {
		return nil, fmt.Errorf("%w: empty principal id", ErrLookupFailed)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(principalID)

	var record Record
	resp, err := httpclient.Get(ctx, endpoint, httpclient.WithResult(&record))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: principal %s", ErrNotFound, principalID)
	case resp.StatusCode() >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode())
	}

	if record.ID == "" {
		return nil, fmt.Errorf("%w: malformed payload", ErrLookupFailed)
	}

	logger.DebugContext(ctx, "permission record resolved",
		slog.String("principal_id", principalID),
		slog.String("role", record.Role),
		slog.Int("companies", len(record.Companies)),
	)

	return &record, nil
}
