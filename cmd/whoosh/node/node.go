// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node runs the background services of a vault node.
package node

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/log"
)

var logger = log.WithContext("pkg", "node")

type Node struct {
	led     *ledger.Ledger
	journal *bridgedb.BridgeDB
}

func New(led *ledger.Ledger, journal *bridgedb.BridgeDB) *Node {
	return &Node{
		led:     led,
		journal: journal,
	}
}

// Run blocks until the parent context is canceled or a service fails.
func (n *Node) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return n.commitLoop(ctx) })
	group.Go(func() error { n.houseKeeping(ctx); return nil })

	return group.Wait()
}

// commitLoop reports ledger progress. The journal living on local disk, a
// failed head read is treated as fatal and stops the node.
func (n *Node) commitLoop(ctx context.Context) error {
	logger.Debug("enter commit loop")
	defer logger.Debug("leave commit loop")

	ticker := n.led.NewTicker()
	head := n.led.Head()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
		}

		newHead := n.led.Head()
		if newHead == head {
			continue
		}

		newest, err := n.journal.Newest()
		if err != nil {
			return errors.Wrap(err, "read journal head")
		}

		logger.Info(fmt.Sprintf("committed versions (%v)", newHead-head),
			"head", newHead,
			"journal", newest.Version(),
		)
		head = newHead
	}
}
