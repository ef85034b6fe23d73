package execution

import (
	"novacoin/core/crypto"
	safemath "novacoin/core/math"
	"novacoin/core/state"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

func checkContractCall(ctx *Context, tx *types.ContractCallTx) error {
	if len(tx.Arguments) > types.ArgMax {
		ctx.State.DoS(100, "arguments-too-long", validation.RejectMalformed, "contract-call")
		return ErrArgsTooLong
	}
	if tx.Fee > types.MaxMoney || tx.Amount > types.MaxMoney {
		ctx.State.DoS(10, "fee-or-amount-range", validation.RejectInvalid, "contract-call")
		return ErrFeeRange
	}
	if feat := types.FeatureSet(ctx.Height); feat.EnforceMinFee && tx.Fee < types.MinTxFee {
		ctx.State.DoS(10, "fee-below-floor", validation.RejectInvalid, "contract-call")
		return ErrFeeFloor
	}
	acc, err := ctx.Resolver.MustBeRegistered(types.RefFromRegID(tx.From))
	if err != nil {
		ctx.State.DoS(10, "source-not-registered", validation.ReadAccountFail, "contract-call")
		return ErrUnregistered
	}
	if _, ok, err := ctx.Scripts.GetScript(tx.App); err != nil {
		return err
	} else if !ok {
		ctx.State.DoS(10, "no-such-contract", validation.ReadAccountFail, "contract-call")
		return ErrScriptNotFound
	}
	if len(tx.Signature) == 0 || len(tx.Signature) > types.MaxSigSize {
		ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "contract-call")
		return ErrBadSigSize
	}
	if !crypto.Verify((*acc.PubKey)[:], tx.SerializeForSigning(), tx.Signature) {
		ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "contract-call")
		return ErrBadSignature
	}
	return nil
}

func executeContractCall(ctx *Context, tx *types.ContractCallTx) (*undo.TxUndo, error) {
	srcKey, _, err := ctx.Resolver.Resolve(types.RefFromRegID(tx.From))
	if err != nil {
		return nil, err
	}
	appKey, ok, err := ctx.Accounts.ResolveKeyID(types.RefFromRegID(tx.App))
	if err != nil {
		return nil, err
	}
	if !ok {
		appKey = types.KeyID(crypto.Hash160(tx.App.Encode()))
	}

	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if err := rec.Snapshot(srcKey); err != nil {
		return nil, err
	}
	if err := rec.Snapshot(appKey); err != nil {
		return nil, err
	}

	srcAcc, _, err := ctx.Accounts.GetAccount(types.RefFromKeyID(srcKey))
	if err != nil {
		return nil, err
	}
	debit, err := safemath.SafeAdd(tx.Fee, tx.Amount)
	if err != nil {
		return nil, err
	}
	if err := srcAcc.SubFree(debit); err != nil {
		ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "contract-call")
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(srcAcc); err != nil {
		return nil, err
	}

	appAcc, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(appKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		appAcc = types.NewAccount(appKey)
	}
	if err := appAcc.AddFree(tx.Amount); err != nil {
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(appAcc); err != nil {
		return nil, err
	}

	script, ok, err := ctx.Scripts.GetScript(tx.App)
	if err != nil {
		return nil, err
	}
	if !ok {
		ctx.State.DoS(10, "no-such-contract", validation.ReadAccountFail, "contract-call")
		return nil, ErrScriptNotFound
	}
	runStep := uint64(len(script)) + uint64(len(tx.Arguments))

	accShadow := state.NewAccountShadow(ctx.Accounts)
	scriptShadow := state.NewScriptShadow(ctx.Scripts)
	result := ctx.Adapter.Execute(tx, accShadow, scriptShadow, ctx.Height, ctx.FuelRate, runStep)
	if !result.OK {
		ctx.State.DoS(10, "run-script-error", validation.UpdateAccountFail, "contract-call")
		if result.Err != nil {
			return nil, result.Err
		}
		return nil, ErrRunScript
	}

	seenRelated := map[types.KeyID]bool{srcKey: true, appKey: true}
	related := []types.KeyID{srcKey, appKey}
	for _, acc := range result.MutatedAccounts {
		if err := rec.Snapshot(acc.KeyID); err != nil {
			return nil, err
		}
		if err := ctx.Accounts.SetAccount(acc); err != nil {
			return nil, err
		}
		if !seenRelated[acc.KeyID] {
			seenRelated[acc.KeyID] = true
			related = append(related, acc.KeyID)
		}
	}
	for _, op := range result.DbOps {
		rec.Merge([]undo.DbPreimage{op})
	}

	if err := indexTxHash(rec, ctx.Scripts, srcKey, tx.Hash()); err != nil {
		return nil, err
	}
	if err := indexTxHash(rec, ctx.Scripts, appKey, tx.Hash()); err != nil {
		return nil, err
	}
	if err := indexRelatedAccounts(rec, ctx.Scripts, tx.Hash(), related); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

func undoContractCall(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
