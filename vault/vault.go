// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the custodial staking/bridging ledger. The vault
// owns a single pooled balance (the native balance of its own address), a
// per-depositor claim table and an incrementally maintained total. Every
// operation checks all of its preconditions before its first write, so a
// refused operation never leaves a partial mutation behind. Note that the
// pooled balance commingles staked principal with bridge deposits and fees:
// OwnerWithdraw is bounded only by owner identity and pool size, and can
// withdraw funds backing other users' claims. That is the contract of the
// source system, preserved here deliberately.
package vault

import (
	"math/big"

	"github.com/whoosh-bridge/whoosh/log"
	"github.com/whoosh-bridge/whoosh/state"
	"github.com/whoosh-bridge/whoosh/table"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

var (
	logger = log.WithContext("pkg", "vault")

	slotInitialized = nameToSlot("initialized")
	slotOwner       = nameToSlot("owner")
	slotTotalStaked = nameToSlot("total-staked")
	slotClaims      = nameToSlot("claims")
)

func nameToSlot(name string) whoosh.Bytes32 {
	return whoosh.BytesToBytes32([]byte(name))
}

// Params are the adjustable protocol parameters of the bridge path.
type Params struct {
	// MinTransferAmount is the exclusive lower bound of a bridge
	// transfer's source amount.
	MinTransferAmount *big.Int
	// MinServiceFee is the floor of the bridge service fee.
	MinServiceFee *big.Int
}

// DefaultParams returns the protocol default parameters.
func DefaultParams() Params {
	return Params{
		MinTransferAmount: whoosh.MinTransferAmount,
		MinServiceFee:     whoosh.MinServiceFee,
	}
}

// Vault is the ledger state machine, bound to one state instance. It is not
// safe for concurrent use; serialization of operations and the all-or-nothing
// commit of their state changes are the calling engine's responsibility.
type Vault struct {
	addr   whoosh.Address
	state  *state.State
	params Params

	initialized *table.FlagCell
	owner       *table.AddressCell
	totalStaked *table.AmountCell
	claims      *table.Table[whoosh.Address, *big.Int]
}

// New create a vault bound to the given state.
func New(addr whoosh.Address, state *state.State, params Params) *Vault {
	ctx := table.NewContext(addr, state)
	return &Vault{
		addr:   addr,
		state:  state,
		params: params,

		initialized: table.NewFlagCell(ctx, slotInitialized),
		owner:       table.NewAddressCell(ctx, slotOwner),
		totalStaked: table.NewAmountCell(ctx, slotTotalStaked),
		claims:      table.NewTable[whoosh.Address, *big.Int](ctx, slotClaims),
	}
}

// Address returns the vault's own address, which holds the pooled balance.
func (v *Vault) Address() whoosh.Address {
	return v.addr
}

// Initialize creates the ledger bookkeeping with the given owner. It is
// idempotent: re-initialization of an existing vault is a no-op, never an
// error, and never resets balances or the stored owner.
func (v *Vault) Initialize(owner whoosh.Address) error {
	ok, err := v.initialized.Get()
	if err != nil {
		return err
	}
	if ok {
		logger.Debug("vault already initialized", "addr", v.addr)
		return nil
	}
	v.owner.Set(&owner)
	v.initialized.Set(true)
	logger.Info("vault initialized", "addr", v.addr, "owner", owner)
	return nil
}

// Initialized returns whether the vault has been initialized.
func (v *Vault) Initialized() (bool, error) {
	return v.initialized.Get()
}

// Owner returns the stored owner address, zero before initialization.
func (v *Vault) Owner() (whoosh.Address, error) {
	return v.owner.Get()
}

// TotalStaked returns the running total of all claims.
func (v *Vault) TotalStaked() (*big.Int, error) {
	return v.totalStaked.Get()
}

// VaultBalance returns the pooled balance.
func (v *Vault) VaultBalance() (*big.Int, error) {
	if err := v.requireInit(); err != nil {
		return nil, err
	}
	return v.state.GetBalance(v.addr)
}

// StakedAmount returns the account's current claim. The claim may be zero:
// entries are kept even when fully unstaked.
func (v *Vault) StakedAmount(account whoosh.Address) (*big.Int, error) {
	if err := v.requireInit(); err != nil {
		return nil, err
	}
	contains, err := v.claims.Contains(account)
	if err != nil {
		return nil, err
	}
	if !contains {
		return nil, newAbort(CodeNoStakeRecord, "account %v never staked", account)
	}
	return v.claims.Get(account)
}

// Stake moves amount from the caller's balance into the pool, grows the
// total and the caller's claim. The claim entry is created on first stake.
func (v *Vault) Stake(caller whoosh.Address, amount *big.Int) error {
	if err := v.requireInit(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return newAbort(CodeInvalidAmount, "stake amount must be positive")
	}
	if err := v.withdrawFrom(caller, amount, CodeInsufficientCallerFunds); err != nil {
		return err
	}
	if err := v.depositTo(v.addr, amount); err != nil {
		return err
	}
	if err := v.totalStaked.Add(amount); err != nil {
		return err
	}
	claim, err := v.claims.Get(caller)
	if err != nil {
		return err
	}
	if claim == nil {
		claim = new(big.Int)
	}
	return v.claims.Set(caller, claim.Add(claim, amount))
}

// Unstake moves amount from the pool back to the caller and shrinks the
// caller's claim and the total. A claim entry drained to zero is kept.
func (v *Vault) Unstake(caller whoosh.Address, amount *big.Int) error {
	if err := v.requireInit(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return newAbort(CodeInvalidAmount, "unstake amount must be positive")
	}
	contains, err := v.claims.Contains(caller)
	if err != nil {
		return err
	}
	if !contains {
		return newAbort(CodeNoStakeRecord, "account %v never staked", caller)
	}
	claim, err := v.claims.Get(caller)
	if err != nil {
		return err
	}
	if claim.Cmp(amount) < 0 {
		return newAbort(CodeInvalidAmount, "unstake %v exceeds claim %v", amount, claim)
	}
	pool, err := v.state.GetBalance(v.addr)
	if err != nil {
		return err
	}
	// claims are backed by the commingled pool; this guards extraction
	// when the pool has drifted below the claim total
	if pool.Cmp(amount) < 0 {
		return newAbort(CodeInsufficientVaultBalance, "pool %v cannot cover %v", pool, amount)
	}
	if err := v.claims.Set(caller, new(big.Int).Sub(claim, amount)); err != nil {
		return err
	}
	if err := v.totalStaked.Sub(amount); err != nil {
		return err
	}
	if err := v.withdrawFrom(v.addr, amount, CodeInsufficientVaultBalance); err != nil {
		return err
	}
	return v.depositTo(caller, amount)
}

// BridgeTransfer deposits sourceAmount plus the service fee into the pool
// and returns the message for the off-chain relay. Claims and the staked
// total are untouched; the deposit becomes part of the undifferentiated
// pooled balance, withdrawable only through OwnerWithdraw.
func (v *Vault) BridgeTransfer(caller whoosh.Address, sourceAmount *big.Int, destAccount []byte, destChain uint16) (*Message, error) {
	if err := v.requireInit(); err != nil {
		return nil, err
	}
	if sourceAmount == nil || sourceAmount.Cmp(v.params.MinTransferAmount) <= 0 {
		return nil, newAbort(CodeTransferAmountTooLow, "source amount must exceed %v", v.params.MinTransferAmount)
	}
	fee := new(big.Int).Div(sourceAmount, whoosh.ServiceFeeDivisor)
	if fee.Cmp(v.params.MinServiceFee) < 0 {
		fee.Set(v.params.MinServiceFee)
	}
	total := new(big.Int).Add(sourceAmount, fee)
	if err := v.withdrawFrom(caller, total, CodeInsufficientCallerFunds); err != nil {
		return nil, err
	}
	if err := v.depositTo(v.addr, total); err != nil {
		return nil, err
	}
	return &Message{
		SourceAccount: caller,
		SourceAmount:  new(big.Int).Set(sourceAmount),
		Fee:           fee,
		DestAccount:   destAccount,
		DestChain:     destChain,
	}, nil
}

// OwnerWithdraw moves amount from the pool to dest. It is gated by owner
// identity and pool size only: the pool commingles staked principal with
// bridge deposits, so the owner can withdraw funds backing other users'
// claims. Claims and the staked total are untouched.
func (v *Vault) OwnerWithdraw(caller, dest whoosh.Address, amount *big.Int) error {
	if err := v.requireInit(); err != nil {
		return err
	}
	owner, err := v.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return newAbort(CodeNotVaultOwner, "caller %v is not the owner", caller)
	}
	if amount == nil || amount.Sign() < 0 {
		return newAbort(CodeInvalidAmount, "withdraw amount must not be negative")
	}
	if err := v.withdrawFrom(v.addr, amount, CodeInsufficientVaultBalance); err != nil {
		return err
	}
	return v.depositTo(dest, amount)
}

func (v *Vault) requireInit() error {
	ok, err := v.initialized.Get()
	if err != nil {
		return err
	}
	if !ok {
		return newAbort(CodeVaultNotFound, "not initialized")
	}
	return nil
}

// withdrawFrom deducts amount from addr's balance, aborting with the given
// code when the balance cannot cover it.
func (v *Vault) withdrawFrom(addr whoosh.Address, amount *big.Int, short Code) error {
	balance, err := v.state.GetBalance(addr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return newAbort(short, "balance %v cannot cover %v", balance, amount)
	}
	return v.state.SetBalance(addr, new(big.Int).Sub(balance, amount))
}

func (v *Vault) depositTo(addr whoosh.Address, amount *big.Int) error {
	balance, err := v.state.GetBalance(addr)
	if err != nil {
		return err
	}
	return v.state.SetBalance(addr, new(big.Int).Add(balance, amount))
}
