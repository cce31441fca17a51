// Package zauth implements ports.KeyService against the external user-key
// HTTP service.
package zauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// Client looks up a principal's OpenSSH authorized-keys lines from an
// external HTTP service. A zero-value *http.Client field means
// http.DefaultClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// SSHKeys implements ports.KeyService: GET {BaseURL}/users/{principal}/keys
// with Accept: application/json, expecting a JSON array of OpenSSH
// authorized-keys lines.
func (c *Client) SSHKeys(ctx context.Context, principal string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/keys", c.BaseURL, url.PathEscape(principal))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewError(domain.ErrRepository, "zauth: build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, domain.NewError(domain.ErrRepository, "zauth: request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(domain.ErrRepository, fmt.Sprintf("zauth: unexpected status %d", resp.StatusCode), nil)
	}

	var keys []string
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		return nil, domain.NewError(domain.ErrRepository, "zauth: decode response", err)
	}
	return keys, nil
}
