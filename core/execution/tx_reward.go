package execution

import (
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

// checkReward never rejects on valid_height (SPEC_FULL.md §4.10: "is_valid
// height always returns true for Reward"), and Reward carries no fee and
// no signature to check. Only the principal shape and the slot index are
// validated.
func checkReward(ctx *Context, tx *types.RewardTx) error {
	if tx.Account.Kind != types.RefRegID && tx.Account.Kind != types.RefPubKey {
		ctx.State.DoS(100, "bad-account-principal", validation.RejectInvalid, "reward")
		return ErrBadPrincipal
	}
	if tx.Index != types.RewardSlotFeeCollector && tx.Index != types.RewardSlotMaturity {
		ctx.State.DoS(100, "bad-reward-index", validation.RejectInvalid, "reward")
		return ErrBadRewardIdx
	}
	return nil
}

func executeReward(ctx *Context, tx *types.RewardTx) (*undo.TxUndo, error) {
	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if tx.Index == types.RewardSlotFeeCollector {
		// Fee-collector slot: no balance change here, and no code in this
		// package credits collected fees. The undo record is empty.
		return rec.Finish(), nil
	}

	key, _, err := ctx.Resolver.Resolve(tx.Account)
	if err != nil {
		return nil, err
	}
	if err := rec.Snapshot(key); err != nil {
		return nil, err
	}
	acc, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(key))
	if err != nil {
		return nil, err
	}
	if !ok {
		acc = types.NewAccount(key)
	}
	if err := acc.AddFree(tx.Value); err != nil {
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(acc); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

func undoReward(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
