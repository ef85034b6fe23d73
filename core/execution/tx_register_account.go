package execution

import (
	"novacoin/core/crypto"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

func checkRegisterAccount(ctx *Context, tx *types.RegisterAccountTx) error {
	if !crypto.IsFullyValidPubKey(tx.User[:]) {
		ctx.State.DoS(100, "bad-user-pubkey", validation.RejectInvalid, "register-account")
		return ErrBadPrincipal
	}
	if tx.Miner != nil && !crypto.IsFullyValidPubKey(tx.Miner[:]) {
		ctx.State.DoS(100, "bad-miner-pubkey", validation.RejectInvalid, "register-account")
		return ErrBadPrincipal
	}
	if tx.Fee > types.MaxMoney {
		ctx.State.DoS(10, "fee-range", validation.RejectInvalid, "register-account")
		return ErrFeeRange
	}
	if feat := types.FeatureSet(ctx.Height); feat.EnforceMinFee && tx.Fee < types.MinTxFee {
		ctx.State.DoS(10, "fee-below-floor", validation.RejectInvalid, "register-account")
		return ErrFeeFloor
	}
	if len(tx.Signature) == 0 || len(tx.Signature) > types.MaxSigSize {
		ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "register-account")
		return ErrBadSigSize
	}
	if !crypto.Verify(tx.User[:], tx.SerializeForSigning(), tx.Signature) {
		ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "register-account")
		return ErrBadSignature
	}
	return nil
}

func executeRegisterAccount(ctx *Context, tx *types.RegisterAccountTx) (*undo.TxUndo, error) {
	keyID := types.KeyID(crypto.Hash160(tx.User[:]))
	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if err := rec.Snapshot(keyID); err != nil {
		return nil, err
	}

	acc, ok, err := ctx.Accounts.GetAccount(types.RefFromKeyID(keyID))
	if err != nil {
		return nil, err
	}
	if ok && acc.PubKey != nil && *acc.PubKey == tx.User {
		ctx.State.DoS(100, "duplicate-register", validation.UpdateAccountFail, "register-account")
		return nil, ErrDuplicateRegister
	}
	if !ok {
		acc = types.NewAccount(keyID)
	}

	if tx.Fee > 0 {
		if err := acc.SubFree(tx.Fee); err != nil {
			ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "register-account")
			return nil, err
		}
	}
	pk := tx.User
	acc.PubKey = &pk
	if tx.Miner != nil {
		mk := *tx.Miner
		acc.MinerPubKey = &mk
	}
	acc.RegID = types.RegID{Height: uint32(ctx.Height), Index: uint16(ctx.Index)}

	if err := ctx.Accounts.SaveRegistered(acc); err != nil {
		return nil, err
	}
	if err := indexTxHash(rec, ctx.Scripts, keyID, tx.Hash()); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

// undoRegisterAccount is the generic undo.Apply path: a nil or empty
// pre-image (fresh registration) erases the whole row, which also drops
// the RegID index entry via Overlay.EraseAccount; a pre-existing
// unregistered row that held value is restored via Overlay.SetAccount,
// which drops the RegID index entry because the restored RegID is zero.
func undoRegisterAccount(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
