package execution

import (
	"testing"

	"novacoin/core/crypto"
	"novacoin/core/types"
)

// TestRunBlockSkipsRejectedButAppliesRest checks that one rejected
// transaction does not abort the rest of the block: SPEC_FULL.md §7 marks
// only a corrupt undo record as fatal to the block driver, not an ordinary
// rejected transaction.
func TestRunBlockSkipsRejectedButAppliesRest(t *testing.T) {
	ctx, ov, _ := newTestContext(1, 0)

	kpGood, _ := crypto.GenerateKeyPair()
	var goodUser types.PubKey
	copy(goodUser[:], kpGood.Public[:])
	good := &types.RegisterAccountTx{
		Header: types.Header{Version: 1, ValidHeight: 1},
		User:   goodUser,
	}
	sign(kpGood, good)

	bad := &types.RegisterAccountTx{
		Header: types.Header{Version: 1, ValidHeight: 1},
		User:   goodUser, // signature left empty: fails Check
	}

	kpOther, _ := crypto.GenerateKeyPair()
	var otherUser types.PubKey
	copy(otherUser[:], kpOther.Public[:])
	trailing := &types.RegisterAccountTx{
		Header: types.Header{Version: 1, ValidHeight: 1},
		User:   otherUser,
	}
	sign(kpOther, trailing)

	txs := []types.Transaction{good, bad, trailing}
	res := RunBlock(ctx, txs)

	if res.Rejected[0] != nil {
		t.Fatalf("tx[0] unexpectedly rejected: %v", res.Rejected[0])
	}
	if res.Rejected[1] == nil {
		t.Fatal("tx[1] should have been rejected for a missing signature")
	}
	if res.Rejected[2] != nil {
		t.Fatalf("tx[2] unexpectedly rejected: %v", res.Rejected[2])
	}

	goodKey := types.KeyID(crypto.Hash160(goodUser[:]))
	trailingKey := types.KeyID(crypto.Hash160(otherUser[:]))
	if _, ok, _ := ov.GetAccount(types.RefFromKeyID(goodKey)); !ok {
		t.Fatal("tx[0] account missing after RunBlock")
	}
	if _, ok, _ := ov.GetAccount(types.RefFromKeyID(trailingKey)); !ok {
		t.Fatal("tx[2] account missing after RunBlock: a rejected tx should not block later ones")
	}
}

func TestUndoBlockReversesInReverseOrder(t *testing.T) {
	ctx, ov, _ := newTestContext(1, 0)

	kpA, _ := crypto.GenerateKeyPair()
	var userA types.PubKey
	copy(userA[:], kpA.Public[:])
	txA := &types.RegisterAccountTx{Header: types.Header{Version: 1, ValidHeight: 1}, User: userA}
	sign(kpA, txA)

	kpB, _ := crypto.GenerateKeyPair()
	var userB types.PubKey
	copy(userB[:], kpB.Public[:])
	txB := &types.RegisterAccountTx{Header: types.Header{Version: 1, ValidHeight: 1}, User: userB}
	sign(kpB, txB)

	txs := []types.Transaction{txA, txB}
	res := RunBlock(ctx, txs)
	if res.Rejected[0] != nil || res.Rejected[1] != nil {
		t.Fatalf("unexpected rejection: %v / %v", res.Rejected[0], res.Rejected[1])
	}

	if err := UndoBlock(ctx, txs, res); err != nil {
		t.Fatalf("UndoBlock: %v", err)
	}

	keyA := types.KeyID(crypto.Hash160(userA[:]))
	keyB := types.KeyID(crypto.Hash160(userB[:]))
	if _, ok, _ := ov.GetAccount(types.RefFromKeyID(keyA)); ok {
		t.Fatal("account A still present after UndoBlock")
	}
	if _, ok, _ := ov.GetAccount(types.RefFromKeyID(keyB)); ok {
		t.Fatal("account B still present after UndoBlock")
	}
}

// TestUndoBlockReversesRegisterContractAtCorrectIndex pins down that
// UndoBlock sets ctx.Index per transaction before calling UndoExecute:
// undoRegisterContract recomputes the contract's RegID from ctx.Height and
// ctx.Index to find the script blob to erase, and the register-contract tx
// here is deliberately not the last one in the block.
func TestUndoBlockReversesRegisterContractAtCorrectIndex(t *testing.T) {
	ctx, ov, sv := newTestContext(1, 0)

	kpSrc, _ := crypto.GenerateKeyPair()
	keySrc := types.KeyID(crypto.Hash160(kpSrc.Public[:]))
	srcReg := types.RegID{Height: 1, Index: 9}
	srcPubKey := types.PubKey(kpSrc.Public)
	if err := ov.SaveRegistered(&types.Account{
		KeyID: keySrc, RegID: srcReg, PubKey: &srcPubKey, BCoins: 10 * types.COIN,
	}); err != nil {
		t.Fatalf("seed source: %v", err)
	}

	blob := []byte{'N', 'V', 'M', 'S', 1, 0, 0, 0, 0} // empty code section
	regTx := &types.RegisterContractTx{
		Header:     types.Header{Version: 1, ValidHeight: 1, Fee: types.COIN},
		From:       srcReg,
		ScriptBlob: blob,
	}
	sign(kpSrc, regTx)

	kpA, _ := crypto.GenerateKeyPair()
	kpB, _ := crypto.GenerateKeyPair()
	keyA := types.KeyID(crypto.Hash160(kpA.Public[:]))
	keyB := types.KeyID(crypto.Hash160(kpB.Public[:]))
	regA := types.RegID{Height: 1, Index: 10}
	pubA := types.PubKey(kpA.Public)
	if err := ov.SaveRegistered(&types.Account{
		KeyID: keyA, RegID: regA, PubKey: &pubA, BCoins: 5 * types.COIN,
	}); err != nil {
		t.Fatalf("seed A: %v", err)
	}
	transferTx := &types.BaseTransferTx{
		Header: types.Header{Version: 1, ValidHeight: 1},
		From:   types.RefFromRegID(regA),
		To:     types.RefFromKeyID(keyB),
		Amount: 1 * types.COIN,
	}
	sign(kpA, transferTx)

	// regTx sits at index 0, transferTx at index 1: the contract's RegID
	// undo must key off index 0, not whatever index RunBlock last left
	// ctx.Index at.
	txs := []types.Transaction{regTx, transferTx}
	res := RunBlock(ctx, txs)
	if res.Rejected[0] != nil {
		t.Fatalf("register-contract rejected: %v", res.Rejected[0])
	}
	if res.Rejected[1] != nil {
		t.Fatalf("transfer rejected: %v", res.Rejected[1])
	}

	contractReg := types.RegID{Height: 1, Index: 0}
	if _, ok, _ := sv.GetScript(contractReg); !ok {
		t.Fatal("script should exist at (1,0) after RunBlock")
	}

	if err := UndoBlock(ctx, txs, res); err != nil {
		t.Fatalf("UndoBlock: %v", err)
	}

	if _, ok, _ := sv.GetScript(contractReg); ok {
		t.Fatal("script at (1,0) should be erased after UndoBlock: register-contract undo used the wrong ctx.Index")
	}
	if _, ok, _ := ov.ResolveKeyID(types.RefFromRegID(contractReg)); ok {
		t.Fatal("contract account's RegID index entry should be erased after undo")
	}
	if bAcc, ok, _ := ov.GetAccount(types.RefFromKeyID(keyB)); ok && bAcc.BCoins != 0 {
		t.Fatalf("B should have no leftover balance after undo, got %+v", bAcc)
	}
}

func TestTxRootStableAndOrderSensitive(t *testing.T) {
	kpA, _ := crypto.GenerateKeyPair()
	var userA types.PubKey
	copy(userA[:], kpA.Public[:])
	txA := &types.RegisterAccountTx{Header: types.Header{Version: 1, ValidHeight: 1}, User: userA}

	kpB, _ := crypto.GenerateKeyPair()
	var userB types.PubKey
	copy(userB[:], kpB.Public[:])
	txB := &types.RegisterAccountTx{Header: types.Header{Version: 1, ValidHeight: 1}, User: userB}

	rootAB := TxRoot([]types.Transaction{txA, txB})
	rootAB2 := TxRoot([]types.Transaction{txA, txB})
	if rootAB != rootAB2 {
		t.Fatal("TxRoot is not deterministic for the same input")
	}

	rootBA := TxRoot([]types.Transaction{txB, txA})
	if rootAB == rootBA {
		t.Fatal("TxRoot should depend on transaction order")
	}

	if empty := TxRoot(nil); empty != ([32]byte{}) {
		t.Fatalf("TxRoot(nil) = %x, want zero", empty)
	}
}
