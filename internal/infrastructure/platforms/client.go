// Package platforms contains the HTTP adapters behind the
// integration.PlatformClient port, one per upstream marketplace.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/orderhub/backend/internal/domain/integration"
)

// maxResponseSize caps a platform API response body (10MB)
const maxResponseSize = 10 * 1024 * 1024

// dateFormat is the update-date format every platform API accepts
const dateFormat = "2006-01-02"

// getJSON performs an authenticated GET and decodes the JSON body into
// out. HTTP and decode failures are wrapped in the shared platform
// error taxonomy so the pipeline can classify them.
func getJSON(ctx context.Context, client *http.Client, baseURL, path string, query url.Values, headers map[string]string, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformRequestFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return integration.ErrPlatformRateLimited
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	return nil
}
