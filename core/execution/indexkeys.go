package execution

import (
	"encoding/binary"

	"novacoin/core/types"
	"novacoin/core/undo"
)

// The address->tx, candidate-ranking and related-accounts secondary
// indexes are opaque (key, old-value) pairs from core/undo's point of view
// (SPEC_FULL.md Design Notes: "the core does not type them"). These three key-space
// prefixes are this package's own private encoding, never inspected by
// core/state or core/undo.
const (
	prefixAddrTx  = 'A'
	prefixRank    = 'R'
	prefixRelated = 'X'
)

func addrTxKey(k types.KeyID, txHash [32]byte) []byte {
	buf := make([]byte, 0, 1+20+32)
	buf = append(buf, prefixAddrTx)
	buf = append(buf, k[:]...)
	buf = append(buf, txHash[:]...)
	return buf
}

func rankKey(candidate types.KeyID) []byte {
	buf := make([]byte, 0, 21)
	buf = append(buf, prefixRank)
	buf = append(buf, candidate[:]...)
	return buf
}

func encodeVotes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// indexTxHash records that txHash touched k, folding the write into rec.
func indexTxHash(rec *undo.Recorder, sv scriptSetter, k types.KeyID, txHash [32]byte) error {
	key := addrTxKey(k, txHash)
	old, existed, err := sv.Set(key, []byte{1})
	if err != nil {
		return err
	}
	rec.RecordDbOp(key, old, existed)
	return nil
}

func relatedKey(txHash [32]byte) []byte {
	buf := make([]byte, 0, 1+32)
	buf = append(buf, prefixRelated)
	buf = append(buf, txHash[:]...)
	return buf
}

func encodeKeyIDs(keys []types.KeyID) []byte {
	buf := make([]byte, 0, len(keys)*20)
	for _, k := range keys {
		buf = append(buf, k[:]...)
	}
	return buf
}

// indexRelatedAccounts persists the set of KeyIDs a Contract-Call touched
// (SPEC_FULL.md §4.6 step 6; original: SetTxRelAccout), keyed by the
// transaction hash so it can be looked up without walking the undo record.
func indexRelatedAccounts(rec *undo.Recorder, sv scriptSetter, txHash [32]byte, keys []types.KeyID) error {
	key := relatedKey(txHash)
	old, existed, err := sv.Set(key, encodeKeyIDs(keys))
	if err != nil {
		return err
	}
	rec.RecordDbOp(key, old, existed)
	return nil
}

// scriptSetter is the narrow slice of state.ScriptView the index helpers
// need, kept separate so tests can supply a bare stub.
type scriptSetter interface {
	Set(key, value []byte) (old []byte, existed bool, err error)
	Erase(key []byte) (old []byte, existed bool, err error)
}

func eraseRank(rec *undo.Recorder, sv scriptSetter, candidate types.KeyID) error {
	key := rankKey(candidate)
	old, existed, err := sv.Erase(key)
	if err != nil {
		return err
	}
	rec.RecordDbOp(key, old, existed)
	return nil
}

func setRank(rec *undo.Recorder, sv scriptSetter, candidate types.KeyID, votes uint64) error {
	key := rankKey(candidate)
	old, existed, err := sv.Set(key, encodeVotes(votes))
	if err != nil {
		return err
	}
	rec.RecordDbOp(key, old, existed)
	return nil
}
