package execution

import (
	"novacoin/core/crypto"
	safemath "novacoin/core/math"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

func checkBaseTransfer(ctx *Context, tx *types.BaseTransferTx) error {
	if tx.From.Kind != types.RefRegID && tx.From.Kind != types.RefPubKey {
		ctx.State.DoS(100, "bad-source-principal", validation.RejectInvalid, "base-transfer")
		return ErrBadPrincipal
	}
	if tx.To.Kind != types.RefRegID && tx.To.Kind != types.RefKeyID {
		ctx.State.DoS(100, "bad-dest-principal", validation.RejectInvalid, "base-transfer")
		return ErrBadPrincipal
	}
	if len(tx.Memo) > types.MemoMax {
		ctx.State.DoS(100, "memo-too-long", validation.RejectMalformed, "base-transfer")
		return ErrMemoTooLong
	}
	if tx.Fee > types.MaxMoney || tx.Amount > types.MaxMoney {
		ctx.State.DoS(10, "fee-or-amount-range", validation.RejectInvalid, "base-transfer")
		return ErrFeeRange
	}
	if feat := types.FeatureSet(ctx.Height); feat.EnforceMinFee && tx.Fee < types.MinTxFee {
		ctx.State.DoS(10, "fee-below-floor", validation.RejectInvalid, "base-transfer")
		return ErrFeeFloor
	}

	var srcPub types.PubKey
	switch tx.From.Kind {
	case types.RefPubKey:
		srcPub = tx.From.PubKey
		if !crypto.IsFullyValidPubKey(srcPub[:]) {
			ctx.State.DoS(100, "bad-source-pubkey", validation.RejectInvalid, "base-transfer")
			return ErrBadPrincipal
		}
	case types.RefRegID:
		acc, err := ctx.Resolver.MustBeRegistered(tx.From)
		if err != nil {
			ctx.State.DoS(10, "source-not-registered", validation.ReadAccountFail, "base-transfer")
			return ErrUnregistered
		}
		srcPub = *acc.PubKey
	}

	if len(tx.Signature) == 0 || len(tx.Signature) > types.MaxSigSize {
		ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "base-transfer")
		return ErrBadSigSize
	}
	if !crypto.Verify(srcPub[:], tx.SerializeForSigning(), tx.Signature) {
		ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "base-transfer")
		return ErrBadSignature
	}
	return nil
}

func executeBaseTransfer(ctx *Context, tx *types.BaseTransferTx) (*undo.TxUndo, error) {
	srcKey, _, err := ctx.Resolver.Resolve(tx.From)
	if err != nil {
		return nil, err
	}
	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if err := rec.Snapshot(srcKey); err != nil {
		return nil, err
	}

	srcAcc, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(srcKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		srcAcc = types.NewAccount(srcKey)
	}

	lazy := tx.From.Kind == types.RefPubKey && !srcAcc.HasRegID()
	if lazy {
		srcAcc.RegID = types.RegID{Height: uint32(ctx.Height), Index: uint16(ctx.Index)}
	}

	debit, err := safemath.SafeAdd(tx.Fee, tx.Amount)
	if err != nil {
		return nil, err
	}
	if err := srcAcc.SubFree(debit); err != nil {
		ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "base-transfer")
		return nil, err
	}

	if lazy {
		if err := ctx.Accounts.SaveRegistered(srcAcc); err != nil {
			return nil, err
		}
	} else if err := ctx.Accounts.SetAccount(srcAcc); err != nil {
		return nil, err
	}

	var destKey types.KeyID
	switch tx.To.Kind {
	case types.RefKeyID:
		destKey = tx.To.KeyID
	case types.RefRegID:
		k, ok, err := ctx.Accounts.ResolveKeyID(tx.To)
		if err != nil {
			return nil, err
		}
		if !ok {
			ctx.State.DoS(10, "unknown-destination", validation.ReadAccountFail, "base-transfer")
			return nil, ErrUnknownAccount
		}
		destKey = k
	}

	if err := rec.Snapshot(destKey); err != nil {
		return nil, err
	}
	destAcc, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(destKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		destAcc = types.NewAccount(destKey)
	}
	if err := destAcc.AddFree(tx.Amount); err != nil {
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(destAcc); err != nil {
		return nil, err
	}

	if err := indexTxHash(rec, ctx.Scripts, srcKey, tx.Hash()); err != nil {
		return nil, err
	}
	if err := indexTxHash(rec, ctx.Scripts, destKey, tx.Hash()); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

// undoBaseTransfer relies entirely on undo.Apply: restoring the source
// pre-image also restores its pre-lazy-assignment RegID (zero), and
// Overlay.SetAccount drops the stale RegID index entry whenever a restored
// account's RegID differs from the one currently indexed.
func undoBaseTransfer(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
