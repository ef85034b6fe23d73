package types

import (
	"bytes"

	"novacoin/core/wire"
)

// MultisigSigner is one signature slot on a MultisigTransferTx. Sig may be
// empty when fewer than len(Signers) signatures are actually supplied;
// Check only requires at least Required valid, non-empty signatures.
type MultisigSigner struct {
	RegID RegID
	Sig   []byte
}

// MultisigTransferTx spends from an M-of-N script account. ScriptKeyID is
// the hash160 of encode(Required, sorted(pubkeys)) and must match a
// pre-existing multisig account.
type MultisigTransferTx struct {
	Header
	ScriptKeyID KeyID
	Required    uint8
	Signers     []MultisigSigner
	To          UserRef
	Amount      uint64
	Memo        []byte
}

func (tx *MultisigTransferTx) Kind() TxKind       { return KindMultisigTransfer }
func (tx *MultisigTransferTx) GetHeader() *Header { return &tx.Header }

func (tx *MultisigTransferTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	buf.Write(tx.ScriptKeyID[:])
	buf.WriteByte(tx.Required)
	wire.WriteVarInt(&buf, uint64(len(tx.Signers)))
	for _, s := range tx.Signers {
		wire.WriteCompactBytes(&buf, s.RegID.Encode())
	}
	tx.To.WriteTo(&buf)
	wire.WriteUint64(&buf, tx.Amount)
	wire.WriteCompactBytes(&buf, tx.Memo)
	return buf.Bytes()
}

func (tx *MultisigTransferTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
