// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/state"
	"github.com/whoosh-bridge/whoosh/test/datagen"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

var vaultAddr = whoosh.BytesToAddress([]byte("vault"))

func newTestVault(t *testing.T) (*Vault, *state.State) {
	db, _ := lvldb.NewMem()
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	return New(vaultAddr, st, DefaultParams()), st
}

func fund(t *testing.T, st *state.State, addr whoosh.Address, amount int64) {
	require.NoError(t, st.SetBalance(addr, big.NewInt(amount)))
}

func balanceOf(t *testing.T, st *state.State, addr whoosh.Address) *big.Int {
	balance, err := st.GetBalance(addr)
	require.NoError(t, err)
	return balance
}

func TestInitialize(t *testing.T) {
	v, _ := newTestVault(t)
	owner := datagen.RandAddress()

	ok, err := v.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Initialize(owner))

	ok, err = v.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := v.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	// re-initialization is a no-op: no error, owner unchanged
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	got, err = v.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestInitializeKeepsBalances(t *testing.T) {
	v, st := newTestVault(t)
	owner := datagen.RandAddress()
	acc := datagen.RandAddress()

	require.NoError(t, v.Initialize(owner))
	fund(t, st, acc, 1000)
	require.NoError(t, v.Stake(acc, big.NewInt(600)))

	require.NoError(t, v.Initialize(owner))

	staked, err := v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), staked)

	pool, err := v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), pool)
}

func TestUninitializedAborts(t *testing.T) {
	v, st := newTestVault(t)
	acc := datagen.RandAddress()
	fund(t, st, acc, 1_000_000)

	_, err := v.VaultBalance()
	assert.True(t, IsAbort(err, CodeVaultNotFound))

	_, err = v.StakedAmount(acc)
	assert.True(t, IsAbort(err, CodeVaultNotFound))

	err = v.Stake(acc, big.NewInt(100))
	assert.True(t, IsAbort(err, CodeVaultNotFound))

	err = v.Unstake(acc, big.NewInt(100))
	assert.True(t, IsAbort(err, CodeVaultNotFound))

	_, err = v.BridgeTransfer(acc, big.NewInt(100_000), []byte{1}, 2)
	assert.True(t, IsAbort(err, CodeVaultNotFound))

	err = v.OwnerWithdraw(acc, acc, big.NewInt(1))
	assert.True(t, IsAbort(err, CodeVaultNotFound))
}

// The reference walkthrough: stake 500, unstake 200, then an unstake of 400
// must be refused without touching anything.
func TestStakeUnstakeScenario(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	fund(t, st, acc, 500)

	require.NoError(t, v.Stake(acc, big.NewInt(500)))

	staked, err := v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), staked)

	pool, err := v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), pool)
	assert.Equal(t, uint64(0), balanceOf(t, st, acc).Uint64())

	require.NoError(t, v.Unstake(acc, big.NewInt(200)))

	staked, err = v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), staked)

	pool, err = v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), pool)
	assert.Equal(t, big.NewInt(200), balanceOf(t, st, acc))

	err = v.Unstake(acc, big.NewInt(400))
	assert.True(t, IsAbort(err, CodeInvalidAmount))

	// state unchanged after the refused unstake
	staked, err = v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), staked)

	pool, err = v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), pool)
	assert.Equal(t, big.NewInt(200), balanceOf(t, st, acc))
}

func TestStakeInvalid(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	fund(t, st, acc, 100)

	assert.True(t, IsAbort(v.Stake(acc, new(big.Int)), CodeInvalidAmount))
	assert.True(t, IsAbort(v.Stake(acc, big.NewInt(-1)), CodeInvalidAmount))
	assert.True(t, IsAbort(v.Stake(acc, nil), CodeInvalidAmount))
	assert.True(t, IsAbort(v.Stake(acc, big.NewInt(101)), CodeInsufficientCallerFunds))

	// nothing was staked by the refused attempts
	_, err := v.StakedAmount(acc)
	assert.True(t, IsAbort(err, CodeNoStakeRecord))
	assert.Equal(t, big.NewInt(100), balanceOf(t, st, acc))
}

func TestStakeAccumulates(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	a := datagen.RandAddress()
	b := datagen.RandAddress()
	fund(t, st, a, 1000)
	fund(t, st, b, 1000)

	require.NoError(t, v.Stake(a, big.NewInt(300)))
	require.NoError(t, v.Stake(a, big.NewInt(200)))
	require.NoError(t, v.Stake(b, big.NewInt(100)))

	staked, err := v.StakedAmount(a)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), staked)

	total, err := v.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), total)

	pool, err := v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), pool)
}

func TestUnstakeErrors(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	fund(t, st, acc, 1000)

	assert.True(t, IsAbort(v.Unstake(acc, big.NewInt(1)), CodeNoStakeRecord))

	require.NoError(t, v.Stake(acc, big.NewInt(500)))

	assert.True(t, IsAbort(v.Unstake(acc, new(big.Int)), CodeInvalidAmount))
	assert.True(t, IsAbort(v.Unstake(acc, big.NewInt(-5)), CodeInvalidAmount))
	assert.True(t, IsAbort(v.Unstake(acc, big.NewInt(501)), CodeInvalidAmount))

	assert.True(t, IsAbort(v.Unstake(datagen.RandAddress(), big.NewInt(1)), CodeNoStakeRecord))
}

func TestUnstakeKeepsZeroClaim(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	fund(t, st, acc, 500)

	require.NoError(t, v.Stake(acc, big.NewInt(500)))
	require.NoError(t, v.Unstake(acc, big.NewInt(500)))

	// a fully drained claim still answers queries, with zero
	staked, err := v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), staked.Uint64())

	// and further unstaking is an amount error, not a missing record
	assert.True(t, IsAbort(v.Unstake(acc, big.NewInt(1)), CodeInvalidAmount))

	total, err := v.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total.Uint64())
	assert.Equal(t, big.NewInt(500), balanceOf(t, st, acc))
}

func TestBridgeTransferFee(t *testing.T) {
	tests := []struct {
		sourceAmount int64
		fee          int64
		code         Code
	}{
		{1_000_000, 100_000, 0},
		{50_001, 5_000, 0},
		{55_000, 5_500, 0},
		{50_000, 0, CodeTransferAmountTooLow},
		{49_999, 0, CodeTransferAmountTooLow},
		{0, 0, CodeTransferAmountTooLow},
		{-1, 0, CodeTransferAmountTooLow},
	}

	for _, tt := range tests {
		v, st := newTestVault(t)
		require.NoError(t, v.Initialize(datagen.RandAddress()))

		acc := datagen.RandAddress()
		fund(t, st, acc, 2_000_000)

		msg, err := v.BridgeTransfer(acc, big.NewInt(tt.sourceAmount), []byte{0xde, 0xad}, 7)
		if tt.code != 0 {
			assert.True(t, IsAbort(err, tt.code), "source amount %d", tt.sourceAmount)
			assert.Equal(t, big.NewInt(2_000_000), balanceOf(t, st, acc))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, acc, msg.SourceAccount)
		assert.Equal(t, big.NewInt(tt.sourceAmount), msg.SourceAmount)
		assert.Equal(t, big.NewInt(tt.fee), msg.Fee)
		assert.Equal(t, []byte{0xde, 0xad}, msg.DestAccount)
		assert.Equal(t, uint16(7), msg.DestChain)

		pool, err := v.VaultBalance()
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(tt.sourceAmount+tt.fee), pool)
		assert.Equal(t, big.NewInt(2_000_000-tt.sourceAmount-tt.fee), balanceOf(t, st, acc))
	}
}

func TestBridgeTransferDoesNotTouchClaims(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	fund(t, st, acc, 1_000_000)
	require.NoError(t, v.Stake(acc, big.NewInt(100)))

	_, err := v.BridgeTransfer(acc, big.NewInt(60_000), []byte{1}, 1)
	require.NoError(t, err)

	staked, err := v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), staked)

	total, err := v.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), total)
}

func TestBridgeTransferInsufficientFunds(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	acc := datagen.RandAddress()
	// one unit short of source amount + fee
	fund(t, st, acc, 60_000+6_000-1)

	_, err := v.BridgeTransfer(acc, big.NewInt(60_000), []byte{1}, 1)
	assert.True(t, IsAbort(err, CodeInsufficientCallerFunds))
	assert.Equal(t, big.NewInt(65_999), balanceOf(t, st, acc))

	pool, err := v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pool.Uint64())
}

func TestOwnerWithdraw(t *testing.T) {
	v, st := newTestVault(t)
	owner := datagen.RandAddress()
	require.NoError(t, v.Initialize(owner))

	acc := datagen.RandAddress()
	dest := datagen.RandAddress()
	fund(t, st, acc, 1_000_000)
	_, err := v.BridgeTransfer(acc, big.NewInt(100_000), []byte{1}, 1)
	require.NoError(t, err)

	// owner gating holds regardless of amount or balance
	assert.True(t, IsAbort(v.OwnerWithdraw(acc, dest, big.NewInt(1)), CodeNotVaultOwner))
	assert.True(t, IsAbort(v.OwnerWithdraw(dest, dest, new(big.Int)), CodeNotVaultOwner))

	assert.True(t, IsAbort(v.OwnerWithdraw(owner, dest, big.NewInt(-1)), CodeInvalidAmount))
	assert.True(t, IsAbort(v.OwnerWithdraw(owner, dest, big.NewInt(110_001)), CodeInsufficientVaultBalance))

	require.NoError(t, v.OwnerWithdraw(owner, dest, big.NewInt(10_000)))
	assert.Equal(t, big.NewInt(10_000), balanceOf(t, st, dest))

	pool, err := v.VaultBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100_000), pool)
}

// The pool commingles staked principal with bridge deposits: the owner can
// withdraw funds backing user claims, after which those claims cannot be
// served. This is the source system's contract, demonstrated, not fixed.
func TestOwnerWithdrawCanDrainClaimBacking(t *testing.T) {
	v, st := newTestVault(t)
	owner := datagen.RandAddress()
	require.NoError(t, v.Initialize(owner))

	acc := datagen.RandAddress()
	fund(t, st, acc, 500)
	require.NoError(t, v.Stake(acc, big.NewInt(500)))

	require.NoError(t, v.OwnerWithdraw(owner, owner, big.NewInt(400)))

	// the claim is still recorded in full
	staked, err := v.StakedAmount(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), staked)

	// but the pool can no longer serve it
	err = v.Unstake(acc, big.NewInt(500))
	assert.True(t, IsAbort(err, CodeInsufficientVaultBalance))

	// partial unstake within the remaining pool still works
	require.NoError(t, v.Unstake(acc, big.NewInt(100)))
}

// fuzzOp describes one randomized ledger operation.
type fuzzOp struct {
	Account uint8
	Unstake bool
	Amount  uint16
}

// Randomized stake/unstake sequences must keep the running total equal to
// the sum of all claims, claims non-negative, and extractions within the
// pool, no matter the order of operations.
func TestRandomizedInvariants(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Initialize(datagen.RandAddress()))

	accounts := make([]whoosh.Address, 8)
	for i := range accounts {
		accounts[i] = datagen.RandAddress()
		fund(t, st, accounts[i], 1_000_000)
	}

	var ops [400]fuzzOp
	fuzz.New().NilChance(0).Fuzz(&ops)

	claims := make(map[whoosh.Address]*big.Int)
	for _, op := range ops {
		acc := accounts[int(op.Account)%len(accounts)]
		amount := big.NewInt(int64(op.Amount))

		if op.Unstake {
			err := v.Unstake(acc, amount)
			if err == nil {
				claims[acc].Sub(claims[acc], amount)
			} else {
				if _, ok := AbortCode(err); !ok {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		} else {
			err := v.Stake(acc, amount)
			if err == nil {
				if claims[acc] == nil {
					claims[acc] = new(big.Int)
				}
				claims[acc].Add(claims[acc], amount)
			} else {
				if _, ok := AbortCode(err); !ok {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		}

		sum := new(big.Int)
		for acc, claim := range claims {
			require.True(t, claim.Sign() >= 0, "claim of %v went negative", acc)
			sum.Add(sum, claim)

			staked, err := v.StakedAmount(acc)
			require.NoError(t, err)
			require.Equal(t, 0, staked.Cmp(claim), "claim mismatch for %v", acc)
		}

		total, err := v.TotalStaked()
		require.NoError(t, err)
		require.Equal(t, 0, total.Cmp(sum), "total staked diverged from claim sum")

		pool, err := v.VaultBalance()
		require.NoError(t, err)
		require.True(t, pool.Cmp(total) >= 0, "pool below staked total")
	}
}
