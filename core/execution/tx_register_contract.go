package execution

import (
	"encoding/binary"
	"errors"

	"novacoin/core/contract"
	"novacoin/core/crypto"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

// scriptMagic tags a well-formed script blob: 4-byte magic, 1-byte
// version, 4-byte little-endian code length, then exactly that many code
// bytes. This system carries no VM of its own (SPEC_FULL.md §1
// Non-goals), so this is the minimal structural envelope Register-Contract
// needs to reject garbage at Check without interpreting the code section.
var scriptMagic = [4]byte{'N', 'V', 'M', 'S'}

var errScriptBounds = errors.New("execution: script code-section length does not match blob size")

func validateScriptBlob(blob []byte) error {
	if len(blob) < 9 || [4]byte{blob[0], blob[1], blob[2], blob[3]} != scriptMagic {
		return ErrBadScript
	}
	codeLen := binary.LittleEndian.Uint32(blob[5:9])
	if uint64(codeLen) != uint64(len(blob)-9) {
		return errScriptBounds
	}
	return nil
}

func checkRegisterContract(ctx *Context, tx *types.RegisterContractTx) error {
	acc, err := ctx.Resolver.MustBeRegistered(types.RefFromRegID(tx.From))
	if err != nil {
		ctx.State.DoS(10, "source-not-registered", validation.ReadAccountFail, "register-contract")
		return ErrUnregistered
	}
	if err := validateScriptBlob(tx.ScriptBlob); err != nil {
		ctx.State.DoS(100, "bad-script", validation.RejectMalformed, "register-contract")
		return err
	}
	floor := contract.Fuel(uint64(len(tx.ScriptBlob)), ctx.FuelRate, true)
	if feat := types.FeatureSet(ctx.Height); feat.EnforceMinFee && floor < types.MinTxFee {
		floor = types.MinTxFee
	}
	if tx.Fee < floor {
		ctx.State.DoS(10, "fee-below-fuel-floor", validation.RejectInvalid, "register-contract")
		return ErrFeeFuel
	}
	if len(tx.Signature) == 0 || len(tx.Signature) > types.MaxSigSize {
		ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "register-contract")
		return ErrBadSigSize
	}
	if !crypto.Verify((*acc.PubKey)[:], tx.SerializeForSigning(), tx.Signature) {
		ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "register-contract")
		return ErrBadSignature
	}
	return nil
}

func executeRegisterContract(ctx *Context, tx *types.RegisterContractTx) (*undo.TxUndo, error) {
	srcKey, _, err := ctx.Resolver.Resolve(types.RefFromRegID(tx.From))
	if err != nil {
		return nil, err
	}
	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if err := rec.Snapshot(srcKey); err != nil {
		return nil, err
	}
	srcAcc, _, err := ctx.Accounts.GetAccount(types.RefFromKeyID(srcKey))
	if err != nil {
		return nil, err
	}
	if err := srcAcc.SubFree(tx.Fee); err != nil {
		ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "register-contract")
		return nil, err
	}
	if err := ctx.Accounts.SetAccount(srcAcc); err != nil {
		return nil, err
	}

	contractReg := types.RegID{Height: uint32(ctx.Height), Index: uint16(ctx.Index)}
	contractKey := types.KeyID(crypto.Hash160(contractReg.Encode()))

	if err := rec.Snapshot(contractKey); err != nil {
		return nil, err
	}
	contractAcc := types.NewAccount(contractKey)
	contractAcc.RegID = contractReg
	if err := ctx.Accounts.SaveRegistered(contractAcc); err != nil {
		return nil, err
	}
	if err := ctx.Scripts.SetScript(contractReg, tx.ScriptBlob); err != nil {
		return nil, err
	}

	if err := indexTxHash(rec, ctx.Scripts, srcKey, tx.Hash()); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

func undoRegisterContract(ctx *Context, tx *types.RegisterContractTx, u *undo.TxUndo) error {
	if err := undo.Apply(ctx.Accounts, ctx.Scripts, u); err != nil {
		return err
	}
	contractReg := types.RegID{Height: uint32(ctx.Height), Index: uint16(ctx.Index)}
	if err := ctx.Scripts.EraseScript(contractReg); err != nil {
		return err
	}
	return nil
}
