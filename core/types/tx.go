package types

import (
	"bytes"

	"novacoin/core/crypto"
	"novacoin/core/wire"
)

// TxKind tags the seven active transaction variants plus the reserved
// Fcoin-Stake kind carried for forward compatibility.
type TxKind uint8

const (
	KindRegisterAccount TxKind = iota
	KindBaseTransfer
	KindContractCall
	KindReward
	KindRegisterContract
	KindDelegateVote
	KindMultisigTransfer
	KindFcoinStake
)

func (k TxKind) String() string {
	switch k {
	case KindRegisterAccount:
		return "RegisterAccount"
	case KindBaseTransfer:
		return "BaseTransfer"
	case KindContractCall:
		return "ContractCall"
	case KindReward:
		return "Reward"
	case KindRegisterContract:
		return "RegisterContract"
	case KindDelegateVote:
		return "DelegateVote"
	case KindMultisigTransfer:
		return "MultisigTransfer"
	case KindFcoinStake:
		return "FcoinStake"
	default:
		return "Unknown"
	}
}

// Header carries the fields common to every transaction kind. Reward is
// the sole exception: it has no fee and no signature, both left zero.
type Header struct {
	Version     uint8
	ValidHeight int64
	Fee         uint64
	Signature   []byte
}

// Transaction is the capability set every transaction kind implements: it
// can describe its own header, serialize the bytes that get signed, and
// derive its own hash. Behavior beyond that (Check/Execute/UndoExecute) is
// dispatched by core/execution via a type switch, the same shape the
// teacher's Executor.Execute uses for its four kinds.
type Transaction interface {
	Kind() TxKind
	GetHeader() *Header
	SerializeForSigning() []byte
	Hash() [32]byte
}

func writeCommonHeader(buf *bytes.Buffer, kind TxKind, h *Header) {
	buf.WriteByte(byte(kind))
	buf.WriteByte(h.Version)
	wire.WriteInt64(buf, h.ValidHeight)
	wire.WriteUint64(buf, h.Fee)
}

// hashOf double-SHA256's the signing payload, matching the canonicalization
// rule shared by every concrete transaction's Hash method.
func hashOf(signingBytes []byte) [32]byte {
	return crypto.DoubleSHA256(signingBytes)
}
