package types

import (
	"bytes"

	"novacoin/core/wire"
)

// BaseTransferTx moves value between two principals. From is a RegID or a
// PubKey (the source can lazily receive a RegID on first send); To is a
// RegID or a KeyID.
type BaseTransferTx struct {
	Header
	From   UserRef
	To     UserRef
	Amount uint64
	Memo   []byte
}

func (tx *BaseTransferTx) Kind() TxKind       { return KindBaseTransfer }
func (tx *BaseTransferTx) GetHeader() *Header { return &tx.Header }

func (tx *BaseTransferTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	tx.From.WriteTo(&buf)
	tx.To.WriteTo(&buf)
	wire.WriteUint64(&buf, tx.Amount)
	wire.WriteCompactBytes(&buf, tx.Memo)
	return buf.Bytes()
}

func (tx *BaseTransferTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
