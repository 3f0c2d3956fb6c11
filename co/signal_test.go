// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whoosh-bridge/whoosh/co"
)

func TestSignalBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Signal()

	assert.True(t, <-sig.NewWaiter().C())
}

func TestSignalAfterWait(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Signal()
	assert.True(t, <-w.C())
}

func TestSignalCoalesces(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	sig.Signal()
	sig.Signal()
	<-w.C()

	// the second raise coalesced into the first wakeup
	select {
	case <-w.C():
		t.Fatal("expected no pending wakeup")
	default:
	}
}

func TestBroadcastWakesAll(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	sig.Broadcast()

	for _, w := range ws {
		assert.False(t, <-w.C())
	}
}

func TestBroadcastBeforeWaiterMisses(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	var missed int
	for range 10 {
		w := sig.NewWaiter()
		select {
		case <-w.C():
		default:
			missed++
		}
	}
	assert.Equal(t, 10, missed)
}

func TestWaiterFollowsBroadcasts(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	// every broadcast lands, even though each one replaces the channel
	for range 3 {
		sig.Broadcast()
		<-w.C()
	}
}
