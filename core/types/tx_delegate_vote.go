package types

import (
	"bytes"

	"novacoin/core/wire"
)

// VoteOp tags one delegate-vote operation as adding or withdrawing support.
type VoteOp uint8

const (
	VoteAdd VoteOp = iota
	VoteSub
)

// VoteOperation is one line item of a DelegateVoteTx.
type VoteOperation struct {
	Op        VoteOp
	Candidate RegID
	Count     uint64
}

// DelegateVoteTx reallocates From's voting power across one or more
// candidates in a single atomic batch.
type DelegateVoteTx struct {
	Header
	From       RegID
	Operations []VoteOperation
}

func (tx *DelegateVoteTx) Kind() TxKind       { return KindDelegateVote }
func (tx *DelegateVoteTx) GetHeader() *Header { return &tx.Header }

func (tx *DelegateVoteTx) SerializeForSigning() []byte {
	var buf bytes.Buffer
	writeCommonHeader(&buf, tx.Kind(), &tx.Header)
	wire.WriteCompactBytes(&buf, tx.From.Encode())
	wire.WriteVarInt(&buf, uint64(len(tx.Operations)))
	for _, op := range tx.Operations {
		buf.WriteByte(byte(op.Op))
		wire.WriteCompactBytes(&buf, op.Candidate.Encode())
		wire.WriteUint64(&buf, op.Count)
	}
	return buf.Bytes()
}

func (tx *DelegateVoteTx) Hash() [32]byte { return hashOf(tx.SerializeForSigning()) }
