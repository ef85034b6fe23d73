package execution

import (
	"novacoin/core/crypto"
	"novacoin/core/identity"
	safemath "novacoin/core/math"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

func checkMultisigTransfer(ctx *Context, tx *types.MultisigTransferTx) error {
	if tx.Required < 1 || int(tx.Required) > len(tx.Signers) || len(tx.Signers) > types.MulsigMax {
		ctx.State.DoS(100, "bad-required-count", validation.RejectInvalid, "multisig-transfer")
		return ErrNotEnoughSigs
	}
	if tx.To.Kind != types.RefRegID && tx.To.Kind != types.RefKeyID {
		ctx.State.DoS(100, "bad-dest-principal", validation.RejectInvalid, "multisig-transfer")
		return ErrBadPrincipal
	}
	if len(tx.Memo) > types.MemoMax {
		ctx.State.DoS(100, "memo-too-long", validation.RejectMalformed, "multisig-transfer")
		return ErrMemoTooLong
	}
	if tx.Fee > types.MaxMoney || tx.Amount > types.MaxMoney {
		ctx.State.DoS(10, "fee-or-amount-range", validation.RejectInvalid, "multisig-transfer")
		return ErrFeeRange
	}
	if feat := types.FeatureSet(ctx.Height); feat.EnforceMinFee && tx.Fee < types.MinTxFee {
		ctx.State.DoS(10, "fee-below-floor", validation.RejectInvalid, "multisig-transfer")
		return ErrFeeFloor
	}

	seenReg := make(map[types.RegID]bool, len(tx.Signers))
	pubKeys := make([]types.PubKey, 0, len(tx.Signers))
	valid := 0
	for _, s := range tx.Signers {
		if seenReg[s.RegID] {
			ctx.State.DoS(100, "duplicated-account", validation.RejectInvalid, "multisig-transfer")
			return ErrDuplicateSigner
		}
		seenReg[s.RegID] = true

		acc, err := ctx.Resolver.MustBeRegistered(types.RefFromRegID(s.RegID))
		if err != nil {
			ctx.State.DoS(10, "signer-not-registered", validation.ReadAccountFail, "multisig-transfer")
			return ErrUnregistered
		}
		pubKeys = append(pubKeys, *acc.PubKey)

		if len(s.Sig) == 0 {
			continue
		}
		if len(s.Sig) > types.MaxSigSize {
			ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "multisig-transfer")
			return ErrBadSigSize
		}
		if !crypto.Verify((*acc.PubKey)[:], tx.SerializeForSigning(), s.Sig) {
			ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "multisig-transfer")
			return ErrBadSignature
		}
		valid++
	}
	for i := 0; i < len(pubKeys); i++ {
		for j := i + 1; j < len(pubKeys); j++ {
			if pubKeys[i] == pubKeys[j] {
				ctx.State.DoS(100, "duplicated-account", validation.RejectInvalid, "multisig-transfer")
				return ErrDuplicateSigner
			}
		}
	}
	if valid < int(tx.Required) {
		ctx.State.DoS(100, "not-enough-valid-signatures", validation.RejectInvalid, "multisig-transfer")
		return ErrNotEnoughSigs
	}

	derived := identity.MultisigKeyID(tx.Required, pubKeys)
	if derived != tx.ScriptKeyID {
		ctx.State.DoS(100, "script-key-id-mismatch", validation.RejectInvalid, "multisig-transfer")
		return ErrScriptMismatch
	}
	if _, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(tx.ScriptKeyID)); err != nil {
		return err
	} else if !ok {
		ctx.State.DoS(10, "no-such-multisig-account", validation.ReadAccountFail, "multisig-transfer")
		return ErrScriptMismatch
	}
	return nil
}

func executeMultisigTransfer(ctx *Context, tx *types.MultisigTransferTx) (*undo.TxUndo, error) {
	srcKey := tx.ScriptKeyID
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

	debit, err := safemath.SafeAdd(tx.Fee, tx.Amount)
	if err != nil {
		return nil, err
	}
	if err := srcAcc.SubFree(debit); err != nil {
		ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "multisig-transfer")
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(srcAcc); err != nil {
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
			ctx.State.DoS(10, "unknown-destination", validation.ReadAccountFail, "multisig-transfer")
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

	if err := indexTxHash(rec, ctx.Scripts, destKey, tx.Hash()); err != nil {
		return nil, err
	}
	for _, s := range tx.Signers {
		signerKey, _, err := ctx.Resolver.Resolve(types.RefFromRegID(s.RegID))
		if err != nil {
			return nil, err
		}
		if err := indexTxHash(rec, ctx.Scripts, signerKey, tx.Hash()); err != nil {
			return nil, err
		}
	}
	return rec.Finish(), nil
}

func undoMultisigTransfer(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
