// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements the transactional engine around the vault. It
// owns the single commit lock: every signed request executes against a fresh
// state over the committed head and either becomes the next version or
// leaves no trace, not even a consumed sequence number. Bridge messages are
// journaled to sqlite immediately before the owning state commit; a journal
// that got ahead of the state after a crash is truncated back on open.
package ledger

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/co"
	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/log"
	"github.com/whoosh-bridge/whoosh/state"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

var (
	logger = log.WithContext("pkg", "ledger")

	// engine bookkeeping lives in the state so that it commits in the
	// same batch as the changes it describes
	propsAddress = whoosh.BytesToAddress(whoosh.Blake2b([]byte("whoosh-ledger-props")).Bytes())
	headKey      = whoosh.Blake2b([]byte("head-version"))
	chainTagKey  = whoosh.Blake2b([]byte("chain-tag"))
)

// Receipt reports a committed request.
type Receipt struct {
	ID      whoosh.Bytes32
	Version uint32
	Kind    tx.Kind
	Sender  whoosh.Address
	// Message is the journaled bridge message, nil for all other kinds.
	Message *bridgedb.Message
}

// Summary is the externally visible vault status at a committed version.
type Summary struct {
	Version           uint32
	VaultAddress      whoosh.Address
	Initialized       bool
	Owner             whoosh.Address
	TotalStaked       *big.Int
	PoolBalance       *big.Int
	MinTransferAmount *big.Int
	MinServiceFee     *big.Int
}

// Account is the externally visible account status.
type Account struct {
	Balance  *big.Int
	Sequence uint64
}

// Ledger glues the vault to its stores. Mutations are serialized by the
// commit lock; reads run lock-free over store snapshots.
type Ledger struct {
	chainTag byte
	params   vault.Params
	now      func() uint64
	stater   *state.Stater
	journal  *bridgedb.BridgeDB
	writer   *bridgedb.Writer

	commitLock sync.Mutex
	head       atomic.Uint32
	tick       co.Signal
}

// New opens the ledger over the given stores. A fresh store is bootstrapped
// with the configured owner, parameters and allocations; reopening an
// existing one verifies the chain tag and truncates journal rows a crash
// left ahead of the state.
func New(store kv.Store, journal *bridgedb.BridgeDB, config Config) (*Ledger, error) {
	params := config.Params
	if params.MinTransferAmount == nil {
		params.MinTransferAmount = whoosh.MinTransferAmount
	}
	if params.MinServiceFee == nil {
		params.MinServiceFee = whoosh.MinServiceFee
	}
	now := config.Now
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}

	l := &Ledger{
		chainTag: config.ChainTag,
		params:   params,
		now:      now,
		stater:   state.NewStater(store),
		journal:  journal,
		writer:   journal.NewWriter(),
	}

	st := l.stater.NewState()
	head, err := readHead(st)
	if err != nil {
		return nil, errors.Wrap(err, "read head version")
	}
	if head == 0 {
		if head, err = l.bootstrap(st, config); err != nil {
			return nil, errors.Wrap(err, "bootstrap")
		}
	} else {
		var tag byte
		if err := st.DecodeStorage(propsAddress, chainTagKey, func(raw []byte) error {
			if len(raw) == 0 {
				return nil
			}
			return rlp.DecodeBytes(raw, &tag)
		}); err != nil {
			return nil, errors.Wrap(err, "read chain tag")
		}
		if tag != config.ChainTag {
			return nil, errors.Errorf("chain tag mismatch: database has %#x, config says %#x", tag, config.ChainTag)
		}
	}
	l.head.Store(head)
	metricHeadVersion().Set(int64(head))

	if err := l.healJournal(head); err != nil {
		return nil, errors.Wrap(err, "heal journal")
	}
	return l, nil
}

// bootstrap initializes the vault and seeds allocations, committing the
// result as version 1.
func (l *Ledger) bootstrap(st *state.State, config Config) (uint32, error) {
	v := vault.New(whoosh.VaultAddress, st, l.params)
	if err := v.Initialize(config.Owner); err != nil {
		return 0, err
	}
	for _, alloc := range config.Allocations {
		if err := st.SetBalance(alloc.Address, alloc.Balance); err != nil {
			return 0, err
		}
	}
	if err := st.EncodeStorage(propsAddress, chainTagKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(config.ChainTag)
	}); err != nil {
		return 0, err
	}
	if err := writeHead(st, 1); err != nil {
		return 0, err
	}
	stage, err := st.Stage()
	if err != nil {
		return 0, err
	}
	if err := stage.Commit(); err != nil {
		return 0, err
	}
	logger.Info("bootstrapped fresh ledger",
		"owner", config.Owner,
		"chainTag", fmt.Sprintf("%#x", config.ChainTag),
		"allocations", len(config.Allocations))
	return 1, nil
}

// healJournal drops journal rows recorded for versions the state never
// committed.
func (l *Ledger) healJournal(head uint32) error {
	newest, err := l.journal.Newest()
	if err != nil {
		return err
	}
	if v := newest.Version(); v > head {
		logger.Warn("bridge journal ahead of state, truncating", "journal", v, "head", head)
		return l.truncateJournal(head + 1)
	}
	return nil
}

func (l *Ledger) truncateJournal(version uint32) error {
	if err := l.writer.Truncate(version); err != nil {
		return err
	}
	if err := l.writer.Commit(); err != nil {
		return err
	}
	metricJournalTruncated().Add(1)
	return nil
}

// Execute validates the signed request and applies it as the next version.
// Failed validation returns a bad-request or rejected error, refusals by the
// vault itself surface as aborts. In every failure case the committed state
// is untouched and the request's sequence number stays unconsumed, so the
// caller may fix and resubmit with the same sequence.
func (l *Ledger) Execute(req *tx.Request) (*Receipt, error) {
	start := time.Now()
	receipt, err := l.execute(req)
	metricExecuteDuration().Observe(time.Since(start).Milliseconds())

	outcome := "committed"
	if err != nil {
		if _, ok := vault.AbortCode(err); ok {
			outcome = "abort"
		} else if IsBadRequest(err) {
			outcome = "bad"
		} else if IsRejected(err) {
			outcome = "rejected"
		} else {
			outcome = "error"
		}
	}
	metricRequestCount().AddWithLabel(1, map[string]string{"kind": req.Kind().String(), "outcome": outcome})
	return receipt, err
}

func (l *Ledger) execute(req *tx.Request) (*Receipt, error) {
	if req.ChainTag() != l.chainTag {
		return nil, badRequestError{fmt.Sprintf("chain tag mismatch: have %#x, want %#x", req.ChainTag(), l.chainTag)}
	}
	now := l.now()
	if req.Expired(now) {
		return nil, badRequestError{"request expired"}
	}
	if req.Expiration() > now+whoosh.MaxRequestExpiration {
		return nil, badRequestError{"expiration too far in the future"}
	}
	sender, err := req.Sender()
	if err != nil {
		return nil, badRequestError{"invalid signature: " + err.Error()}
	}

	l.commitLock.Lock()
	defer l.commitLock.Unlock()

	st := l.stater.NewState()
	seq, err := st.GetSequence(sender)
	if err != nil {
		return nil, errors.Wrap(err, "get sequence")
	}
	if req.Sequence() != seq {
		return nil, rejectedError{fmt.Sprintf("sequence mismatch: have %d, want %d", req.Sequence(), seq)}
	}
	if err := st.SetSequence(sender, seq+1); err != nil {
		return nil, errors.Wrap(err, "set sequence")
	}

	msg, err := l.apply(st, sender, req)
	if err != nil {
		return nil, err
	}

	version := l.head.Load() + 1
	if err := writeHead(st, version); err != nil {
		return nil, errors.Wrap(err, "write head version")
	}
	stage, err := st.Stage()
	if err != nil {
		return nil, errors.Wrap(err, "stage")
	}

	var journaled *bridgedb.Message
	if msg != nil {
		// the journal commits first; a crash in between is healed by
		// truncation on the next open
		if err := l.writer.Write(version, now, req.ID(), msg); err != nil {
			if rerr := l.writer.Rollback(); rerr != nil {
				logger.Error("rollback bridge journal", "err", rerr)
			}
			return nil, errors.Wrap(err, "append bridge journal")
		}
		if err := l.writer.Commit(); err != nil {
			return nil, errors.Wrap(err, "commit bridge journal")
		}
		journaled = bridgedb.NewMessage(bridgedb.NewSequence(version, 0), now, req.ID(), msg)
	}
	if err := stage.Commit(); err != nil {
		if msg != nil {
			if terr := l.truncateJournal(version); terr != nil {
				logger.Error("bridge journal left ahead of state", "version", version, "err", terr)
			}
		}
		return nil, errors.Wrap(err, "commit state")
	}

	l.head.Store(version)
	metricHeadVersion().Set(int64(version))
	updateVaultGauges(st, l.params)
	l.tick.Broadcast()
	logger.Debug("request committed",
		"id", req.ID(),
		"kind", req.Kind(),
		"sender", sender,
		"version", version)

	return &Receipt{
		ID:      req.ID(),
		Version: version,
		Kind:    req.Kind(),
		Sender:  sender,
		Message: journaled,
	}, nil
}

func updateVaultGauges(st *state.State, params vault.Params) {
	v := vault.New(whoosh.VaultAddress, st, params)
	if staked, err := v.TotalStaked(); err == nil && staked.IsInt64() {
		metricTotalStaked().Set(staked.Int64())
	}
	if pool, err := v.VaultBalance(); err == nil && pool.IsInt64() {
		metricPoolBalance().Set(pool.Int64())
	}
}

// apply decodes the request args and runs the matching vault operation.
func (l *Ledger) apply(st *state.State, sender whoosh.Address, req *tx.Request) (*vault.Message, error) {
	v := vault.New(whoosh.VaultAddress, st, l.params)
	switch req.Kind() {
	case tx.KindStake:
		var args tx.StakeArgs
		if err := req.DecodeArgs(&args); err != nil {
			return nil, badRequestError{"decode stake args: " + err.Error()}
		}
		return nil, v.Stake(sender, args.Amount)
	case tx.KindUnstake:
		var args tx.UnstakeArgs
		if err := req.DecodeArgs(&args); err != nil {
			return nil, badRequestError{"decode unstake args: " + err.Error()}
		}
		return nil, v.Unstake(sender, args.Amount)
	case tx.KindBridgeTransfer:
		var args tx.BridgeTransferArgs
		if err := req.DecodeArgs(&args); err != nil {
			return nil, badRequestError{"decode bridge transfer args: " + err.Error()}
		}
		return v.BridgeTransfer(sender, args.Amount, args.DestAccount, args.DestChain)
	case tx.KindOwnerWithdraw:
		var args tx.OwnerWithdrawArgs
		if err := req.DecodeArgs(&args); err != nil {
			return nil, badRequestError{"decode owner withdraw args: " + err.Error()}
		}
		return nil, v.OwnerWithdraw(sender, args.Dest, args.Amount)
	default:
		return nil, badRequestError{fmt.Sprintf("unknown request kind %d", req.Kind())}
	}
}

// Head returns the committed version.
func (l *Ledger) Head() uint32 {
	return l.head.Load()
}

// NewTicker creates a waiter which alerts on every committed version.
func (l *Ledger) NewTicker() co.Waiter {
	return l.tick.NewWaiter()
}

// Summary reads the vault status at the committed head.
func (l *Ledger) Summary() (*Summary, error) {
	st, release := l.stater.NewSnapshotState()
	defer release()

	version, err := readHead(st)
	if err != nil {
		return nil, err
	}
	v := vault.New(whoosh.VaultAddress, st, l.params)
	initialized, err := v.Initialized()
	if err != nil {
		return nil, err
	}
	owner, err := v.Owner()
	if err != nil {
		return nil, err
	}
	totalStaked, err := v.TotalStaked()
	if err != nil {
		return nil, err
	}
	pool, err := v.VaultBalance()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Version:           version,
		VaultAddress:      whoosh.VaultAddress,
		Initialized:       initialized,
		Owner:             owner,
		TotalStaked:       totalStaked,
		PoolBalance:       pool,
		MinTransferAmount: new(big.Int).Set(l.params.MinTransferAmount),
		MinServiceFee:     new(big.Int).Set(l.params.MinServiceFee),
	}, nil
}

// StakedAmount reads the account's claim at the committed head.
func (l *Ledger) StakedAmount(account whoosh.Address) (*big.Int, error) {
	st, release := l.stater.NewSnapshotState()
	defer release()
	return vault.New(whoosh.VaultAddress, st, l.params).StakedAmount(account)
}

// Account reads balance and request sequence at the committed head.
func (l *Ledger) Account(account whoosh.Address) (*Account, error) {
	st, release := l.stater.NewSnapshotState()
	defer release()
	balance, err := st.GetBalance(account)
	if err != nil {
		return nil, err
	}
	seq, err := st.GetSequence(account)
	if err != nil {
		return nil, err
	}
	return &Account{Balance: balance, Sequence: seq}, nil
}

func readHead(st *state.State) (uint32, error) {
	var head uint32
	if err := st.DecodeStorage(propsAddress, headKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &head)
	}); err != nil {
		return 0, err
	}
	return head, nil
}

func writeHead(st *state.State, head uint32) error {
	return st.EncodeStorage(propsAddress, headKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(head)
	})
}
