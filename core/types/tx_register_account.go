package types

import "bytes"

// RegisterAccountTx binds a fresh public key (and, optionally, a miner
// key) to an on-chain identity, minting a RegID for it.
type RegisterAccountTx struct {
	Header
	User  PubKey
	Miner *PubKey // nil when the account is not also a miner
}

func (tx *RegisterAccountTx) Kind() TxKind      { return KindRegisterAccount }
func (tx *RegisterAccountTx) GetHeader() *Header { return &tx.Header }

func (tx *RegisterAccountTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	buf.Write(tx.User[:])
	if tx.Miner != nil {
		buf.WriteByte(1)
		buf.Write(tx.Miner[:])
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func (tx *RegisterAccountTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
