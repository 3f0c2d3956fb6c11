// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/whoosh-bridge/whoosh/client/common"
)

// httpRequest folds the response status into the error. A 404 maps to
// common.ErrNotFound, any other non 200 status to common.ErrNot200Status.
func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	body, statusCode, err := c.rawHTTPRequest(method, url, payload)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode == http.StatusNotFound:
		return nil, common.ErrNotFound
	case statusCode != http.StatusOK:
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", statusCode, body, common.ErrNot200Status)
	}
	return body, nil
}

func (c *Client) rawHTTPRequest(method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, ok := payload.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}
