// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with a whoosh node.
// It offers methods to retrieve the vault summary, claims, accounts and
// journaled bridge messages, and to submit signed requests.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/whoosh-bridge/whoosh/api/accounts"
	"github.com/whoosh-bridge/whoosh/api/health"
	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/api/vault"
	"github.com/whoosh-bridge/whoosh/client/common"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Client talks to the REST surface of a single whoosh node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// getJSON fetches path and decodes the response body into T.
func getJSON[T any](c *Client, path, what string) (T, error) {
	var parsed T
	body, err := c.httpGET(c.url + path)
	if err != nil {
		return parsed, fmt.Errorf("unable to retrieve %s - %w", what, err)
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return parsed, nil
}

// postJSON posts payload to path and decodes the response body into T.
func postJSON[T any](c *Client, path string, payload any, what string) (T, error) {
	var parsed T
	body, err := c.httpPOST(c.url+path, payload)
	if err != nil {
		return parsed, fmt.Errorf("unable to retrieve %s - %w", what, err)
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return parsed, nil
}

// GetVaultSummary retrieves the vault status at the committed head version.
func (c *Client) GetVaultSummary() (*vault.Summary, error) {
	return getJSON[*vault.Summary](c, "/vault", "vault summary")
}

// GetClaim retrieves the staked claim of the given address. It returns
// common.ErrNotFound for an account that never staked.
func (c *Client) GetClaim(addr *whoosh.Address) (*vault.Claim, error) {
	return getJSON[*vault.Claim](c, "/vault/claims/"+addr.String(), "claim")
}

// GetAccount retrieves the account details for the given address.
func (c *Client) GetAccount(addr *whoosh.Address) (*accounts.Account, error) {
	return getJSON[*accounts.Account](c, "/accounts/"+addr.String(), "account")
}

// SendRequest submits a signed raw request to the endpoint matching its kind
// and returns the commit receipt.
func (c *Client) SendRequest(raw *types.RawRequest, kind tx.Kind) (*types.Receipt, error) {
	return postJSON[*types.Receipt](c, "/vault/"+kind.String(), raw, "receipt")
}

// FilterMessages filters journaled bridge messages based on the provided filter.
func (c *Client) FilterMessages(filter *types.MessageFilter) ([]*types.Message, error) {
	return postJSON[[]*types.Message](c, "/messages", filter, "messages")
}

// GetHealth retrieves the node health status. The status body is returned
// for both the healthy and the unhealthy response codes.
func (c *Client) GetHealth() (*health.Status, error) {
	body, statusCode, err := c.rawHTTPRequest(http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve health - %w", err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", statusCode, body, common.ErrNot200Status)
	}

	var status health.Status
	if err = json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("unable to unmarshal health status - %w", err)
	}

	return &status, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified path with the provided data.
func (c *Client) RawHTTPPost(path string, calldata any) ([]byte, int, error) {
	data, ok := calldata.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(calldata); err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.rawHTTPRequest(http.MethodPost, c.url+path, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified path.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest("GET", c.url+path, nil)
}
