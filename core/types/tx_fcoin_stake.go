package types

import (
	"bytes"

	"novacoin/core/wire"
)

// FcoinStakeTx is a reserved kind carried for forward compatibility with
// the original chain's fund-coin staking mechanism. It has no execution
// body defined in this system; core/execution rejects it at Check (see
// Open Question 1 in DESIGN.md).
type FcoinStakeTx struct {
	Header
	StakeAmount uint64
}

func (tx *FcoinStakeTx) Kind() TxKind       { return KindFcoinStake }
func (tx *FcoinStakeTx) GetHeader() *Header { return &tx.Header }

func (tx *FcoinStakeTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	wire.WriteUint64(&buf, tx.StakeAmount)
	return buf.Bytes()
}

func (tx *FcoinStakeTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
