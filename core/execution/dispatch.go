package execution

import (
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

// Check validates tx against ctx without mutating any view, dispatching on
// tx's concrete type the same way the teacher's Executor.Execute switches
// on its four kinds.
func Check(ctx *Context, tx types.Transaction) error {
	switch t := tx.(type) {
	case *types.RegisterAccountTx:
		return checkRegisterAccount(ctx, t)
	case *types.BaseTransferTx:
		return checkBaseTransfer(ctx, t)
	case *types.ContractCallTx:
		return checkContractCall(ctx, t)
	case *types.RewardTx:
		return checkReward(ctx, t)
	case *types.RegisterContractTx:
		return checkRegisterContract(ctx, t)
	case *types.DelegateVoteTx:
		return checkDelegateVote(ctx, t)
	case *types.MultisigTransferTx:
		return checkMultisigTransfer(ctx, t)
	case *types.FcoinStakeTx:
		ctx.State.DoS(100, "reserved-kind", validation.RejectInvalid, "fcoin-stake")
		return ErrReserved
	default:
		return ErrUnknownKind
	}
}

// Execute applies tx's effects to ctx's views and returns its undo record.
// On a non-nil error no undo record is returned, and writes made before
// the failing step (for example a source debit) stay in ctx's views. For
// Contract-Call, the adapter's own writes go to a shadow overlay (see
// tx_contract_call.go), so a script failure adds none of them to
// ctx.Accounts; the source debit and contract credit made before the
// adapter call remain.
func Execute(ctx *Context, tx types.Transaction) (*undo.TxUndo, error) {
	switch t := tx.(type) {
	case *types.RegisterAccountTx:
		return executeRegisterAccount(ctx, t)
	case *types.BaseTransferTx:
		return executeBaseTransfer(ctx, t)
	case *types.ContractCallTx:
		return executeContractCall(ctx, t)
	case *types.RewardTx:
		return executeReward(ctx, t)
	case *types.RegisterContractTx:
		return executeRegisterContract(ctx, t)
	case *types.DelegateVoteTx:
		return executeDelegateVote(ctx, t)
	case *types.MultisigTransferTx:
		return executeMultisigTransfer(ctx, t)
	case *types.FcoinStakeTx:
		return nil, ErrReserved
	default:
		return nil, ErrUnknownKind
	}
}

// UndoExecute reverses u against ctx's views. Every kind but
// Register-Contract relies entirely on the generic undo.Apply walk;
// Register-Contract additionally erases the script blob its Execute wrote
// outside the account/DB-op log.
func UndoExecute(ctx *Context, tx types.Transaction, u *undo.TxUndo) error {
	switch t := tx.(type) {
	case *types.RegisterAccountTx:
		return undoRegisterAccount(ctx, u)
	case *types.BaseTransferTx:
		return undoBaseTransfer(ctx, u)
	case *types.ContractCallTx:
		return undoContractCall(ctx, u)
	case *types.RewardTx:
		return undoReward(ctx, u)
	case *types.RegisterContractTx:
		return undoRegisterContract(ctx, t, u)
	case *types.DelegateVoteTx:
		return undoDelegateVote(ctx, u)
	case *types.MultisigTransferTx:
		return undoMultisigTransfer(ctx, u)
	default:
		return ErrUnknownKind
	}
}

// RelatedAccounts answers the address-indexer query described in
// SPEC_FULL.md §4.12: the set of KeyIDs tx's undo record shows were
// touched. Delegate-Vote returns nil per Open Question 2, matching the
// original's early "not useful" return for that kind.
func RelatedAccounts(tx types.Transaction, u *undo.TxUndo) []types.KeyID {
	if _, ok := tx.(*types.DelegateVoteTx); ok {
		return nil
	}
	seen := make(map[types.KeyID]bool, len(u.Accounts))
	out := make([]types.KeyID, 0, len(u.Accounts))
	for _, pre := range u.Accounts {
		if !seen[pre.KeyID] {
			seen[pre.KeyID] = true
			out = append(out, pre.KeyID)
		}
	}
	return out
}
