// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/state"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// verifyJournal re-derives every journal row from the protocol rules and
// compares. The ledger heals a journal that runs ahead of state on open, so
// by the time this runs the journal must not exceed the state head.
func verifyJournal(ctx context.Context, led *ledger.Ledger, journal *bridgedb.BridgeDB) error {
	summary, err := led.Summary()
	if err != nil {
		return err
	}

	newest, err := journal.Newest()
	if err != nil {
		return err
	}
	if newest == 0 {
		fmt.Println(">> Journal db is empty <<")
		return nil
	}
	if v := newest.Version(); v > led.Head() {
		return errors.Errorf("journal version %v ahead of ledger head %v", v, led.Head())
	}

	fmt.Println(">> Verifying journal db <<")
	pb := pb.New64(int64(newest)).
		Set64(0).
		SetMaxWidth(90).
		Start()
	defer func() { pb.NotPrint = true }()

	const batch = uint32(256)

	var (
		pos  bridgedb.Sequence
		prev *bridgedb.Message
		seen = make(map[whoosh.Bytes32]struct{})
	)
	for {
		rows, err := journal.MessagesAfter(ctx, pos, batch)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			if err := verifyJournalRow(row, prev, summary, seen); err != nil {
				return err
			}
			prev = row
			pos = row.Sequence
			pb.Set64(int64(row.Sequence))

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	pb.Finish()
	return nil
}

// auditState re-derives the balance sheet from the account records. Vault
// operations only move balance between accounts, so the sum over all records
// must still equal the allocation total the ledger was seeded with.
func auditState(ctx context.Context, store kv.Store, allocations []ledger.Allocation) error {
	fmt.Println(">> Auditing state db <<")

	var (
		count int
		total = new(big.Int)
	)
	err := state.NewStater(store).ScanAccounts(func(addr whoosh.Address, acc *state.Account) error {
		if acc.IsEmpty() {
			return errors.Errorf("account %v: empty record not pruned", addr)
		}
		total.Add(total, acc.Balance)
		count++

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	seeded := new(big.Int)
	for _, alloc := range allocations {
		seeded.Add(seeded, alloc.Balance)
	}
	if total.Cmp(seeded) != 0 {
		return errors.Errorf("account balances sum to %v, allocations to %v", total, seeded)
	}
	fmt.Printf("Audited %v accounts holding %v in total\n", count, total)
	return nil
}

func verifyJournalRow(
	row *bridgedb.Message,
	prev *bridgedb.Message,
	summary *ledger.Summary,
	seen map[whoosh.Bytes32]struct{},
) error {
	seq := row.Sequence
	if prev != nil {
		switch {
		case seq.Version() == prev.Sequence.Version():
			if seq.Index() != prev.Sequence.Index()+1 {
				return errors.Errorf("journal seq %v: index gap after %v", seq, prev.Sequence)
			}
		case seq.Version() > prev.Sequence.Version():
			if seq.Index() != 0 {
				return errors.Errorf("journal seq %v: first row of a version must have index 0", seq)
			}
		default:
			return errors.Errorf("journal seq %v: version behind %v", seq, prev.Sequence)
		}
	} else if seq.Index() != 0 {
		return errors.Errorf("journal seq %v: first row must have index 0", seq)
	}

	if row.RequestID.IsZero() {
		return errors.Errorf("journal seq %v: zero request id", seq)
	}
	if _, ok := seen[row.RequestID]; ok {
		return errors.Errorf("journal seq %v: duplicate request id %v", seq, row.RequestID)
	}
	seen[row.RequestID] = struct{}{}

	if len(row.DestAccount) == 0 {
		return errors.Errorf("journal seq %v: empty dest account", seq)
	}
	if row.Amount == nil || row.Amount.Cmp(summary.MinTransferAmount) <= 0 {
		return errors.Errorf("journal seq %v: amount %v not above minimum %v", seq, row.Amount, summary.MinTransferAmount)
	}

	fee := new(big.Int).Div(row.Amount, whoosh.ServiceFeeDivisor)
	if fee.Cmp(summary.MinServiceFee) < 0 {
		fee.Set(summary.MinServiceFee)
	}
	expected := *row
	expected.Fee = fee
	if !reflect.DeepEqual(&expected, row) {
		fmt.Println("\nDiff journal row")
		fmt.Println(jsonDiff(&expected, row))
		return errors.New("incorrect journal row")
	}
	return nil
}

func jsonDiff(expected, actual interface{}) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	return diff
}
