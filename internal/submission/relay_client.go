package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vegthaliclub/catering-backend/pkg/types"
)

// RelayClient sends one catering request to the email relay.
type RelayClient interface {
	Send(ctx context.Context, req types.CateringRequest) error
}

// RelayFunc adapts an in-process relay to RelayClient.
type RelayFunc func(ctx context.Context, req types.CateringRequest) error

func (f RelayFunc) Send(ctx context.Context, req types.CateringRequest) error {
	return f(ctx, req)
}

// HTTPRelayClient posts requests to a remote relay endpoint.
type HTTPRelayClient struct {
	url    string
	client *http.Client
}

func NewHTTPRelayClient(url string, timeout time.Duration) *HTTPRelayClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPRelayClient{url: url, client: &http.Client{Timeout: timeout}}
}

// Send treats any non-2xx status the same as a transport error.
func (c *HTTPRelayClient) Send(ctx context.Context, req types.CateringRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode relay request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay responded %d", resp.StatusCode)
	}
	return nil
}
