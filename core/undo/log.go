// Package undo implements the per-transaction reversal log described in
// SPEC_FULL.md §4.3: account pre-images captured before first mutation,
// plus opaque (key, old-value) pairs for every secondary-index write, in
// application order so reversal can walk them back to front.
package undo

import (
	"novacoin/core/state"
	"novacoin/core/types"
)

// AccountPreimage snapshots an account's value immediately before its
// first mutation within a transaction. Before is nil when the account did
// not exist prior to the transaction, meaning undo must erase it rather
// than restore it.
type AccountPreimage struct {
	KeyID  types.KeyID
	Before *types.Account
}

// DbPreimage snapshots one secondary-index key immediately before it was
// overwritten. Existed is false when the key was absent, meaning undo
// must erase rather than restore.
type DbPreimage struct {
	Key      []byte
	OldValue []byte
	Existed  bool
}

// TxUndo is the complete reversal record for one transaction.
type TxUndo struct {
	TxHash   [32]byte
	Accounts []AccountPreimage
	DbOps    []DbPreimage
}

// Recorder accumulates a TxUndo while a transaction executes. Snapshot is
// idempotent per key by construction: it records an account's pre-state only
// the first time it is asked to, so repeated mutations of the same
// account within one Execute do not overwrite the true pre-image.
type Recorder struct {
	undo *TxUndo
	seen map[types.KeyID]bool
	av   state.AccountView
}

// NewRecorder starts recording for a transaction with the given hash.
func NewRecorder(txHash [32]byte, av state.AccountView) *Recorder {
	return &Recorder{
		undo: &TxUndo{TxHash: txHash},
		seen: make(map[types.KeyID]bool),
		av:   av,
	}
}

// Snapshot captures key's current account value the first time it is
// called for that key within this recorder's lifetime. Later calls are
// no-ops. Call this before making any mutating call for key.
func (r *Recorder) Snapshot(key types.KeyID) error {
	if r.seen[key] {
		return nil
	}
	r.seen[key] = true
	acc, ok, err := r.av.GetAccount(types.RefFromKeyID(key))
	if err != nil {
		return err
	}
	pre := AccountPreimage{KeyID: key}
	if ok {
		pre.Before = acc
	}
	r.undo.Accounts = append(r.undo.Accounts, pre)
	return nil
}

// RecordDbOp appends a secondary-index pre-image in application order.
func (r *Recorder) RecordDbOp(key, oldValue []byte, existed bool) {
	r.undo.DbOps = append(r.undo.DbOps, DbPreimage{
		Key:      append([]byte(nil), key...),
		OldValue: append([]byte(nil), oldValue...),
		Existed:  existed,
	})
}

// Merge appends another recorder's already-captured DB operations
// verbatim, in order. This is how core/execution folds the Contract
// Runtime Adapter's own operation log into the containing transaction's
// undo record (SPEC_FULL.md §4.6 step 5).
func (r *Recorder) Merge(ops []DbPreimage) {
	r.undo.DbOps = append(r.undo.DbOps, ops...)
}

// Finish returns the accumulated TxUndo.
func (r *Recorder) Finish() *TxUndo { return r.undo }

// Apply reverses u against av/sv: DB operations are undone back to front,
// then account pre-images are restored back to front. This ordering
// matters whenever a DB operation and an account mutation both touched
// state derived from one another within the same transaction (e.g.
// Delegate-Vote's ranking-index entries versus the voter's account).
func Apply(av state.AccountView, sv state.ScriptView, u *TxUndo) error {
	for i := len(u.DbOps) - 1; i >= 0; i-- {
		op := u.DbOps[i]
		if op.Existed {
			if _, _, err := sv.Set(op.Key, op.OldValue); err != nil {
				return err
			}
		} else {
			if _, _, err := sv.Erase(op.Key); err != nil {
				return err
			}
		}
	}
	for i := len(u.Accounts) - 1; i >= 0; i-- {
		pre := u.Accounts[i]
		if pre.Before == nil || pre.Before.IsEmpty() {
			if err := av.EraseAccount(pre.KeyID); err != nil {
				return err
			}
			continue
		}
		if pre.Before.HasRegID() {
			if err := av.SaveRegistered(pre.Before); err != nil {
				return err
			}
		} else if err := av.SetAccount(pre.Before); err != nil {
			return err
		}
	}
	return nil
}
