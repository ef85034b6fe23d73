package types

import (
	"bytes"

	"novacoin/core/wire"
)

// Coinbase slot indices for RewardTx.Index.
const (
	RewardSlotFeeCollector = 0
	RewardSlotMaturity     = -1
)

// RewardTx is a coinbase entry: it carries no fee and no signature. Index
// selects the slot (fee-collector or maturity); any other value is a
// protocol error rejected at Check.
type RewardTx struct {
	Header
	Account UserRef
	Value   uint64
	Index   int32
}

func (tx *RewardTx) Kind() TxKind       { return KindReward }
func (tx *RewardTx) GetHeader() *Header { return &tx.Header }

func (tx *RewardTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	tx.Account.WriteTo(&buf)
	wire.WriteUint64(&buf, tx.Value)
	wire.WriteInt64(&buf, int64(tx.Index))
	return buf.Bytes()
}

func (tx *RewardTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
