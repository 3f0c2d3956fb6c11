// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides a typed Go client for the whoosh HTTP API.
package client

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/api/accounts"
	"github.com/whoosh-bridge/whoosh/api/health"
	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/api/vault"
	"github.com/whoosh-bridge/whoosh/client/common"
	"github.com/whoosh-bridge/whoosh/client/httpclient"
	"github.com/whoosh-bridge/whoosh/client/wsclient"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

// SendRequest submits a signed request and returns its commit receipt. The
// request is refused as a whole if the node cannot commit it; nothing is
// consumed then, not even the sequence number.
func (c *Client) SendRequest(req *tx.Request) (*types.Receipt, error) {
	rlpReq, err := rlp.EncodeToBytes(req)
	if err != nil {
		return nil, fmt.Errorf("unable to encode request - %w", err)
	}

	return c.SendRequestRaw(rlpReq, req.Kind())
}

// SendRequestRaw submits an RLP-encoded signed request of the given kind.
func (c *Client) SendRequestRaw(rlpReq []byte, kind tx.Kind) (*types.Receipt, error) {
	return c.httpConn.SendRequest(&types.RawRequest{Raw: hexutil.Encode(rlpReq)}, kind)
}

// VaultSummary retrieves the vault status at the committed head version.
func (c *Client) VaultSummary() (*vault.Summary, error) {
	return c.httpConn.GetVaultSummary()
}

// Claim retrieves the staked claim of the given address;
// common.ErrNotFound for an account that never staked.
func (c *Client) Claim(addr *whoosh.Address) (*vault.Claim, error) {
	return c.httpConn.GetClaim(addr)
}

// Account retrieves the balance and request sequence of the given address.
func (c *Client) Account(addr *whoosh.Address) (*accounts.Account, error) {
	return c.httpConn.GetAccount(addr)
}

// FilterMessages filters journaled bridge messages.
func (c *Client) FilterMessages(filter *types.MessageFilter) ([]*types.Message, error) {
	return c.httpConn.FilterMessages(filter)
}

// Health retrieves the node health status.
func (c *Client) Health() (*health.Status, error) {
	return c.httpConn.GetHealth()
}

// SubscribeMessages subscribes to the bridge message feed from the given
// packed journal position, empty meaning new messages only.
func (c *Client) SubscribeMessages(pos string) (*common.Subscription[*types.Message], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeMessages(pos)
}
