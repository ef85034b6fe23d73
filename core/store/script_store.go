package store

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"novacoin/core/types"
)

// ScriptStore is a badger-backed state.ScriptView: contract script blobs
// under one key prefix, the opaque secondary-index keyspace under another,
// so the two never collide inside the same badger instance.
type ScriptStore struct {
	db *badger.DB
}

func NewScriptStore(db *badger.DB) *ScriptStore { return &ScriptStore{db: db} }

func scriptKey(reg types.RegID) []byte {
	return append([]byte("script:"), reg.Encode()...)
}

func kvKey(key []byte) []byte {
	return append([]byte("kv:"), key...)
}

func (s *ScriptStore) GetScript(reg types.RegID) ([]byte, bool, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(scriptKey(reg))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			blob = append([]byte(nil), val...)
			return nil
		})
	})
	return blob, blob != nil, err
}

func (s *ScriptStore) SetScript(reg types.RegID, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(scriptKey(reg), blob)
	})
}

func (s *ScriptStore) EraseScript(reg types.RegID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(scriptKey(reg))
	})
}

func (s *ScriptStore) Get(key []byte) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(kvKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte(nil), v...)
			return nil
		})
	})
	return val, val != nil, err
}

func (s *ScriptStore) Set(key, value []byte) ([]byte, bool, error) {
	var old []byte
	var existed bool
	err := s.db.Update(func(txn *badger.Txn) error {
		if item, err := txn.Get(kvKey(key)); err == nil {
			existed = true
			item.Value(func(v []byte) error {
				old = append([]byte(nil), v...)
				return nil
			})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(kvKey(key), value)
	})
	return old, existed, err
}

func (s *ScriptStore) Erase(key []byte) ([]byte, bool, error) {
	var old []byte
	var existed bool
	err := s.db.Update(func(txn *badger.Txn) error {
		if item, err := txn.Get(kvKey(key)); err == nil {
			existed = true
			item.Value(func(v []byte) error {
				old = append([]byte(nil), v...)
				return nil
			})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Delete(kvKey(key))
	})
	return old, existed, err
}
