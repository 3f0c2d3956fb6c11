// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whoosh-bridge/whoosh/co"
)

func TestGoesWait(t *testing.T) {
	var goes co.Goes
	var n atomic.Int32

	for range 5 {
		goes.Go(func() { n.Add(1) })
	}
	goes.Wait()

	assert.Equal(t, int32(5), n.Load())
}

func TestGoesDone(t *testing.T) {
	var goes co.Goes
	release := make(chan struct{})
	goes.Go(func() { <-release })

	select {
	case <-goes.Done():
		t.Fatal("done before goroutine returned")
	case <-time.After(10 * time.Millisecond):
	}

	close(release)
	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for done")
	}
}
