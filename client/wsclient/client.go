// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wsclient subscribes to the websocket feeds of a whoosh node.
package wsclient

import (
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/client/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(rawURL string) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	var scheme string
	switch parsed.Scheme {
	case "http", "ws":
		scheme = "ws"
	case "https", "wss":
		scheme = "wss"
	default:
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   parsed.Host,
		scheme: scheme,
	}, nil
}

// SubscribeMessages subscribes to the bridge message feed, replaying from the
// packed journal position pos. An empty pos streams new messages only.
func (c *Client) SubscribeMessages(pos string) (*common.Subscription[*types.Message], error) {
	query := ""
	if pos != "" {
		query = "pos=" + pos
	}
	conn, err := c.connect("/subscriptions/messages", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[types.Message](conn), nil
}

// subscribe reads JSON messages of type T off the connection into the
// subscription channel until the connection dies or Unsubscribe is called.
func subscribe[T any](conn *websocket.Conn) *common.Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T])
	var unsubscribed atomic.Bool

	go func() {
		defer close(eventChan)

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				if !unsubscribed.Load() {
					eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}
				}
				return
			}

			eventChan <- common.EventWrapper[*T]{Data: &data}
		}
	}()

	return &common.Subscription[*T]{
		EventChan: eventChan,
		Unsubscribe: func() error {
			unsubscribed.Store(true)
			return conn.Close()
		},
	}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{Scheme: c.scheme, Host: c.host, Path: endpoint, RawQuery: rawQuery}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}
