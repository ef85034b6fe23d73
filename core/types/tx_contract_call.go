package types

import (
	"bytes"

	"novacoin/core/wire"
)

// ContractCallTx invokes a registered contract's script, carrying value
// from From to App and passing Arguments to the runtime adapter.
type ContractCallTx struct {
	Header
	From      RegID
	App       RegID
	Amount    uint64
	Arguments []byte
}

func (tx *ContractCallTx) Kind() TxKind       { return KindContractCall }
func (tx *ContractCallTx) GetHeader() *Header { return &tx.Header }

func (tx *ContractCallTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	wire.WriteCompactBytes(&buf, tx.From.Encode())
	wire.WriteCompactBytes(&buf, tx.App.Encode())
	wire.WriteUint64(&buf, tx.Amount)
	wire.WriteCompactBytes(&buf, tx.Arguments)
	return buf.Bytes()
}

func (tx *ContractCallTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
