// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams journaled bridge messages over websocket.
package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	messageCacheSize = 1000
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	ledger     *ledger.Ledger
	db         *bridgedb.BridgeDB
	batchLimit uint32
	upgrader   *websocket.Upgrader
	cache      *messageCache
	done       chan struct{}
	wg         sync.WaitGroup
}

func New(ledger *ledger.Ledger, db *bridgedb.BridgeDB, batchLimit uint32) *Subscriptions {
	return &Subscriptions{
		ledger:     ledger,
		db:         db,
		batchLimit: batchLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		cache: newMessageCache(messageCacheSize),
		done:  make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeMessages(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "pos"))
	}
	reader := newMessageReader(s.db, s.cache, pos, s.batchLimit)

	// the conn is hijacked from here on, so no error should be returned to
	// the wrapping handler
	conn, closed, err := s.setupConn(w, req)
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	err = s.pipe(req.Context(), conn, reader, closed)
	s.closeConn(conn, err)
	return nil
}

// parsePosition parses the packed journal sequence to resume after, empty
// meaning the newest journaled position.
func (s *Subscriptions) parsePosition(posStr string) (bridgedb.Sequence, error) {
	newest, err := s.db.Newest()
	if err != nil {
		return 0, err
	}
	if posStr == "" {
		return newest, nil
	}
	pos, err := strconv.ParseUint(posStr, 0, 63)
	if err != nil {
		return 0, err
	}
	if bridgedb.Sequence(pos) > newest {
		return 0, errors.New("position is in the future")
	}
	return bridgedb.Sequence(pos), nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// watch the reader for close signals
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}

	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		logger.Debug("failed to send close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("failed to close connection", "err", err)
	}
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *messageReader, closed chan struct{}) error {
	ticker := s.ledger.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return errors.WithMessage(err, "read")
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return errors.WithMessage(err, "write")
			}
		}
		if hasMore {
			continue
		}
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return errors.WithMessage(err, "ping")
			}
		}
	}
}

// Close stops every running subscription and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/messages").
		Methods(http.MethodGet).
		Name("GET /subscriptions/messages").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeMessages))
}
