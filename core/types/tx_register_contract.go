package types

import (
	"bytes"

	"novacoin/core/wire"
)

// RegisterContractTx deploys ScriptBlob under a freshly allocated RegID.
type RegisterContractTx struct {
	Header
	From       RegID
	ScriptBlob []byte
}

func (tx *RegisterContractTx) Kind() TxKind       { return KindRegisterContract }
func (tx *RegisterContractTx) GetHeader() *Header { return &tx.Header }

func (tx *RegisterContractTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	wire.WriteCompactBytes(&buf, tx.From.Encode())
	wire.WriteCompactBytes(&buf, tx.ScriptBlob)
	return buf.Bytes()
}

func (tx *RegisterContractTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
