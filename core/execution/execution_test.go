package execution

import (
	"testing"

	"novacoin/core/contract"
	"novacoin/core/crypto"
	"novacoin/core/identity"
	"novacoin/core/state"
	"novacoin/core/types"
)

func newTestContext(height int64, index int) (*Context, *state.Overlay, *state.InMemoryScriptView) {
	ov := state.NewOverlay()
	sv := state.NewInMemoryScriptView()
	ctx := NewContext(ov, sv, contract.Reference{}, height, 100)
	ctx.Index = index
	return ctx, ov, sv
}

func sign(kp *crypto.KeyPair, tx types.Transaction) {
	tx.GetHeader().Signature = kp.Sign(tx.SerializeForSigning())
}

// S1: Register -> Transfer -> Undo.
func TestScenarioRegisterTransferUndo(t *testing.T) {
	kpP, _ := crypto.GenerateKeyPair()
	kpQ, _ := crypto.GenerateKeyPair()
	keyP := types.KeyID(crypto.Hash160(kpP.Public[:]))
	keyQ := types.KeyID(crypto.Hash160(kpQ.Public[:]))

	ctx, ov, _ := newTestContext(100, 0)
	if err := ov.SetAccount(&types.Account{KeyID: keyP, BCoins: 2_000_000}); err != nil {
		t.Fatalf("seed P: %v", err)
	}
	pubQ := types.PubKey(kpQ.Public)
	if err := ov.SaveRegistered(&types.Account{
		KeyID: keyQ, RegID: types.RegID{Height: 50, Index: 3}, PubKey: &pubQ, BCoins: 200_000_000,
	}); err != nil {
		t.Fatalf("seed Q: %v", err)
	}

	regTx := &types.RegisterAccountTx{
		Header: types.Header{Version: 1, ValidHeight: 100, Fee: 1_000_000},
		User:   kpP.Public,
	}
	sign(kpP, regTx)
	if err := Check(ctx, regTx); err != nil {
		t.Fatalf("Check(register): %v", err)
	}
	regUndo, err := Execute(ctx, regTx)
	if err != nil {
		t.Fatalf("Execute(register): %v", err)
	}

	pAcc, _, _ := ov.GetAccount(types.RefFromKeyID(keyP))
	if pAcc.RegID != (types.RegID{Height: 100, Index: 0}) {
		t.Fatalf("P's RegID = %v, want (100,0)", pAcc.RegID)
	}

	ctx.Index = 1
	transferTx := &types.BaseTransferTx{
		Header: types.Header{Version: 1, ValidHeight: 100, Fee: 10_000},
		From:   types.RefFromRegID(types.RegID{Height: 50, Index: 3}),
		To:     types.RefFromKeyID(keyP),
		Amount: 100_000_000,
	}
	sign(kpQ, transferTx)
	if err := Check(ctx, transferTx); err != nil {
		t.Fatalf("Check(transfer): %v", err)
	}
	transferUndo, err := Execute(ctx, transferTx)
	if err != nil {
		t.Fatalf("Execute(transfer): %v", err)
	}

	pAcc, _, _ = ov.GetAccount(types.RefFromKeyID(keyP))
	if pAcc.BCoins != 2_000_000-1_000_000+100_000_000 {
		t.Fatalf("P balance = %d", pAcc.BCoins)
	}

	if err := UndoExecute(ctx, transferTx, transferUndo); err != nil {
		t.Fatalf("undo transfer: %v", err)
	}
	if err := UndoExecute(ctx, regTx, regUndo); err != nil {
		t.Fatalf("undo register: %v", err)
	}

	qAcc, _, _ := ov.GetAccount(types.RefFromKeyID(keyQ))
	if qAcc.BCoins != 200_000_000 {
		t.Fatalf("Q balance after undo = %d, want 200000000", qAcc.BCoins)
	}
	pAcc, ok, _ := ov.GetAccount(types.RefFromKeyID(keyP))
	if !ok || pAcc.BCoins != 2_000_000 || pAcc.PubKey != nil {
		t.Fatalf("P after undo = %+v", pAcc)
	}
	if _, ok, _ := ov.ResolveKeyID(types.RefFromRegID(types.RegID{Height: 100, Index: 0})); ok {
		t.Fatal("RegID(100,0) index entry should be erased after undo")
	}
}

// S2: Lazy RegID assignment and its undo. The source holds value under its
// KeyID but has no RegID and no public key on file before the transfer.
func TestScenarioLazyRegID(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair()
	destKp, _ := crypto.GenerateKeyPair()
	destKey := types.KeyID(crypto.Hash160(destKp.Public[:]))
	srcKey := types.KeyID(crypto.Hash160(kp.Public[:]))

	ctx, ov, _ := newTestContext(200, 7)
	if err := ov.SetAccount(&types.Account{KeyID: srcKey, BCoins: 50_000_000}); err != nil {
		t.Fatalf("seed source: %v", err)
	}
	tx := &types.BaseTransferTx{
		Header: types.Header{Version: 1, ValidHeight: 200},
		From:   types.RefFromPubKey(kp.Public),
		To:     types.RefFromKeyID(destKey),
		Amount: 50_000_000,
	}
	sign(kp, tx)
	if err := Check(ctx, tx); err != nil {
		t.Fatalf("Check: %v", err)
	}
	u, err := Execute(ctx, tx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	srcAcc, ok, _ := ov.GetAccount(types.RefFromKeyID(srcKey))
	if !ok || srcAcc.RegID != (types.RegID{Height: 200, Index: 7}) {
		t.Fatalf("source RegID = %+v, want (200,7)", srcAcc)
	}

	if err := UndoExecute(ctx, tx, u); err != nil {
		t.Fatalf("undo: %v", err)
	}
	srcAcc, ok, _ = ov.GetAccount(types.RefFromKeyID(srcKey))
	if !ok || srcAcc.BCoins != 50_000_000 || srcAcc.HasRegID() {
		t.Fatalf("source after undo = %+v, want balance 50000000 and no RegID", srcAcc)
	}
	if _, ok, _ := ov.ResolveKeyID(types.RefFromRegID(types.RegID{Height: 200, Index: 7})); ok {
		t.Fatal("lazy RegID index entry should be erased after undo")
	}
}

// S3: Contract-Call with adapter mutations, fully reversed.
func TestScenarioContractCallMutations(t *testing.T) {
	kpFrom, _ := crypto.GenerateKeyPair()
	kpA, _ := crypto.GenerateKeyPair()
	keyFrom := types.KeyID(crypto.Hash160(kpFrom.Public[:]))
	keyA := types.KeyID(crypto.Hash160(kpA.Public[:]))

	ctx, ov, sv := newTestContext(300, 5)
	fromReg := types.RegID{Height: 20, Index: 5}
	appReg := types.RegID{Height: 10, Index: 1}

	pubFrom := types.PubKey(kpFrom.Public)
	if err := ov.SaveRegistered(&types.Account{KeyID: keyFrom, RegID: fromReg, PubKey: &pubFrom, BCoins: 10_000_000}); err != nil {
		t.Fatalf("seed from: %v", err)
	}
	// opPay instruction: pay 1_000_000 to A.
	script := make([]byte, 0, 29)
	script = append(script, 0x01)
	script = append(script, keyA[:]...)
	script = append(script, encodeVotes(1_000_000)...)
	if err := sv.SetScript(appReg, script); err != nil {
		t.Fatalf("seed script: %v", err)
	}

	tx := &types.ContractCallTx{
		Header: types.Header{Version: 1, ValidHeight: 300, Fee: 1_000_000},
		From:   fromReg,
		App:    appReg,
		Amount: 1_000_000,
	}
	sign(kpFrom, tx)
	if err := Check(ctx, tx); err != nil {
		t.Fatalf("Check: %v", err)
	}
	u, err := Execute(ctx, tx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	aAcc, ok, _ := ov.GetAccount(types.RefFromKeyID(keyA))
	if !ok || aAcc.BCoins != 1_000_000 {
		t.Fatalf("A balance = %+v", aAcc)
	}

	if err := UndoExecute(ctx, tx, u); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok, _ := ov.GetAccount(types.RefFromKeyID(keyA)); ok {
		t.Fatal("A should not exist after undo: it was created fresh by the adapter")
	}
	fromAcc, _, _ := ov.GetAccount(types.RefFromKeyID(keyFrom))
	if fromAcc.BCoins != 10_000_000 {
		t.Fatalf("from balance after undo = %d, want 10000000", fromAcc.BCoins)
	}
}

// S4: Delegate-Vote up then down.
func TestScenarioDelegateVoteUpThenDown(t *testing.T) {
	kpSrc, _ := crypto.GenerateKeyPair()
	keySrc := types.KeyID(crypto.Hash160(kpSrc.Public[:]))
	var keyCand types.KeyID
	keyCand[0] = 0xAB

	ctx, ov, _ := newTestContext(1, 0) // pre-R2: no vote signature, no candidate-registration requirement
	srcReg := types.RegID{Height: 1, Index: 1}
	candReg := types.RegID{Height: 1, Index: 2}
	pubSrc := types.PubKey(kpSrc.Public)
	if err := ov.SaveRegistered(&types.Account{KeyID: keySrc, RegID: srcReg, PubKey: &pubSrc, BCoins: 2000}); err != nil {
		t.Fatalf("seed src: %v", err)
	}
	if err := ov.SaveRegistered(&types.Account{KeyID: keyCand, RegID: candReg}); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	addTx := &types.DelegateVoteTx{
		Header:     types.Header{Version: 1, ValidHeight: 1},
		From:       srcReg,
		Operations: []types.VoteOperation{{Op: types.VoteAdd, Candidate: candReg, Count: 1000}},
	}
	if err := Check(ctx, addTx); err != nil {
		t.Fatalf("Check(add): %v", err)
	}
	if _, err := Execute(ctx, addTx); err != nil {
		t.Fatalf("Execute(add): %v", err)
	}

	subTx := &types.DelegateVoteTx{
		Header:     types.Header{Version: 1, ValidHeight: 1},
		From:       srcReg,
		Operations: []types.VoteOperation{{Op: types.VoteSub, Candidate: candReg, Count: 400}},
	}
	if err := Check(ctx, subTx); err != nil {
		t.Fatalf("Check(sub): %v", err)
	}
	if _, err := Execute(ctx, subTx); err != nil {
		t.Fatalf("Execute(sub): %v", err)
	}

	candAcc, _, _ := ov.GetAccount(types.RefFromKeyID(keyCand))
	if candAcc.ReceivedVotes != 600 {
		t.Fatalf("candidate received_votes = %d, want 600", candAcc.ReceivedVotes)
	}
	srcAcc, _, _ := ov.GetAccount(types.RefFromKeyID(keySrc))
	if srcAcc.BCoins != 1400 {
		t.Fatalf("source balance = %d, want 1400", srcAcc.BCoins)
	}
	if len(srcAcc.VotedFunds) != 1 || srcAcc.VotedFunds[0].Amount != 600 {
		t.Fatalf("voted funds = %+v", srcAcc.VotedFunds)
	}
}

// S5: Multisig 2-of-3.
func TestScenarioMultisig2of3(t *testing.T) {
	kp1, _ := crypto.GenerateKeyPair()
	kp2, _ := crypto.GenerateKeyPair()
	kp3, _ := crypto.GenerateKeyPair()
	key1 := types.KeyID(crypto.Hash160(kp1.Public[:]))
	key2 := types.KeyID(crypto.Hash160(kp2.Public[:]))
	key3 := types.KeyID(crypto.Hash160(kp3.Public[:]))
	reg1 := types.RegID{Height: 1, Index: 1}
	reg2 := types.RegID{Height: 1, Index: 2}
	reg3 := types.RegID{Height: 1, Index: 3}

	ctx, ov, _ := newTestContext(1, 0)
	for _, seed := range []struct {
		key types.KeyID
		reg types.RegID
		pk  types.PubKey
	}{{key1, reg1, kp1.Public}, {key2, reg2, kp2.Public}, {key3, reg3, kp3.Public}} {
		pk := seed.pk
		if err := ov.SaveRegistered(&types.Account{KeyID: seed.key, RegID: seed.reg, PubKey: &pk, BCoins: 1000}); err != nil {
			t.Fatalf("seed signer: %v", err)
		}
	}

	scriptKeyID := identity.MultisigKeyID(2, []types.PubKey{kp1.Public, kp2.Public, kp3.Public})
	if err := ov.SetAccount(&types.Account{KeyID: scriptKeyID, BCoins: 500_000}); err != nil {
		t.Fatalf("seed multisig account: %v", err)
	}
	destKp, _ := crypto.GenerateKeyPair()
	destKey := types.KeyID(crypto.Hash160(destKp.Public[:]))

	base := &types.MultisigTransferTx{
		Header:      types.Header{Version: 1, ValidHeight: 1},
		ScriptKeyID: scriptKeyID,
		Required:    2,
		Signers: []types.MultisigSigner{
			{RegID: reg1}, {RegID: reg2}, {RegID: reg3},
		},
		To:     types.RefFromKeyID(destKey),
		Amount: 1000,
	}
	msg := base.SerializeForSigning()
	base.Signers[0].Sig = kp1.Sign(msg)
	base.Signers[1].Sig = kp2.Sign(msg)
	// signer 3 left empty

	if err := Check(ctx, base); err != nil {
		t.Fatalf("Check(2-of-3 valid): %v", err)
	}
	if _, err := Execute(ctx, base); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Only one valid signature: rejected.
	oneValid := *base
	oneValid.Signers = []types.MultisigSigner{
		{RegID: reg1, Sig: kp1.Sign(msg)},
		{RegID: reg2},
		{RegID: reg3},
	}
	if err := Check(ctx, &oneValid); err != ErrNotEnoughSigs {
		t.Fatalf("expected ErrNotEnoughSigs, got %v", err)
	}

	// Duplicate signer RegIDs: rejected.
	dup := *base
	dup.Signers = []types.MultisigSigner{
		{RegID: reg1, Sig: kp1.Sign(msg)},
		{RegID: reg1, Sig: kp1.Sign(msg)},
	}
	if err := Check(ctx, &dup); err != ErrDuplicateSigner {
		t.Fatalf("expected ErrDuplicateSigner, got %v", err)
	}
}

// S6: Reward maturity slot.
func TestScenarioRewardMaturitySlot(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair()
	key := types.KeyID(crypto.Hash160(kp.Public[:]))

	ctx, ov, _ := newTestContext(400, 0)
	if err := ov.SetAccount(&types.Account{KeyID: key, BCoins: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tx := &types.RewardTx{
		Header:  types.Header{Version: 1, ValidHeight: 400},
		Account: types.RefFromPubKey(kp.Public),
		Value:   5_000_000,
		Index:   types.RewardSlotMaturity,
	}
	if err := Check(ctx, tx); err != nil {
		t.Fatalf("Check: %v", err)
	}
	u, err := Execute(ctx, tx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	acc, _, _ := ov.GetAccount(types.RefFromKeyID(key))
	if acc.BCoins != 5_000_010 {
		t.Fatalf("balance = %d, want 5000010", acc.BCoins)
	}
	if err := UndoExecute(ctx, tx, u); err != nil {
		t.Fatalf("undo: %v", err)
	}
	acc, _, _ = ov.GetAccount(types.RefFromKeyID(key))
	if acc.BCoins != 10 {
		t.Fatalf("balance after undo = %d, want 10", acc.BCoins)
	}
}

// Fee-floor gating (universal invariant 7): a fee below MinTxFee is
// accepted before the fork and rejected at or after it.
func TestFeeFloorGating(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair()
	dest, _ := crypto.GenerateKeyPair()
	destKey := types.KeyID(crypto.Hash160(dest.Public[:]))

	preFork, _, _ := newTestContext(types.MajorVerR2-1, 0)
	tx := &types.BaseTransferTx{
		Header: types.Header{Version: 1, ValidHeight: types.MajorVerR2 - 1, Fee: 1},
		From:   types.RefFromPubKey(kp.Public),
		To:     types.RefFromKeyID(destKey),
		Amount: 1,
	}
	sign(kp, tx)
	if err := Check(preFork, tx); err != nil {
		t.Fatalf("pre-fork low fee should be accepted, got %v", err)
	}

	postFork, _, _ := newTestContext(types.MajorVerR2, 0)
	tx2 := &types.BaseTransferTx{
		Header: types.Header{Version: 1, ValidHeight: types.MajorVerR2, Fee: 1},
		From:   types.RefFromPubKey(kp.Public),
		To:     types.RefFromKeyID(destKey),
		Amount: 1,
	}
	sign(kp, tx2)
	if err := Check(postFork, tx2); err != ErrFeeFloor {
		t.Fatalf("post-fork low fee: expected ErrFeeFloor, got %v", err)
	}
}
