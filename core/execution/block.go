package execution

import (
	"golang.org/x/sync/errgroup"

	"novacoin/core/crypto"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

// TxRoot computes the Merkle root a block header would commit to over txs'
// hashes, in block order. It is pure metadata over the input list: nothing
// in the execution core reads it back.
func TxRoot(txs []types.Transaction) [32]byte {
	hashes := make([][]byte, len(txs))
	for i, tx := range txs {
		h := tx.Hash()
		hashes[i] = h[:]
	}
	root := crypto.MerkleRoot(hashes)
	var out [32]byte
	copy(out[:], root)
	return out
}

// BlockResult is the outcome of driving one block's transaction list
// through Check then Execute.
type BlockResult struct {
	Undos    []*undo.TxUndo
	Rejected []error // Rejected[i] is nil iff Undos[i] committed
}

// CheckAll runs Check for every transaction in txs concurrently. Because
// Check never mutates ctx's views (SPEC_FULL.md §5 supplemental), this is
// a pure throughput optimization: it changes nothing about the strictly
// sequential Execute pass RunBlock performs afterward. Each goroutine gets
// its own validation.State so concurrent DoS calls never race.
func CheckAll(ctx *Context, txs []types.Transaction) []error {
	results := make([]error, len(txs))
	var g errgroup.Group
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			local := *ctx
			local.State = validation.New()
			local.Index = i
			results[i] = Check(&local, tx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// RunBlock checks every transaction (concurrently), then executes the
// accepted ones strictly in order; a transaction that fails Execute is
// recorded and the rest of the block still runs. Rejected[i] is set for both Check and Execute failures; Undos[i] is nil
// wherever Rejected[i] is non-nil.
func RunBlock(ctx *Context, txs []types.Transaction) *BlockResult {
	res := &BlockResult{
		Undos:    make([]*undo.TxUndo, len(txs)),
		Rejected: CheckAll(ctx, txs),
	}
	for i, tx := range txs {
		if res.Rejected[i] != nil {
			continue
		}
		ctx.Index = i
		u, err := Execute(ctx, tx)
		if err != nil {
			res.Rejected[i] = err
			continue
		}
		res.Undos[i] = u
	}
	return res
}

// UndoBlock reverses a block's committed transactions in reverse order,
// halting immediately on the first failure (an UndoFailure in
// SPEC_FULL.md §7's terms, treated as fatal by the caller).
func UndoBlock(ctx *Context, txs []types.Transaction, res *BlockResult) error {
	for i := len(txs) - 1; i >= 0; i-- {
		if res.Undos[i] == nil {
			continue
		}
		ctx.Index = i
		if err := UndoExecute(ctx, txs[i], res.Undos[i]); err != nil {
			return err
		}
	}
	return nil
}
