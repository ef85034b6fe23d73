// Package store persists the execution core's views in badger, the
// teacher's key-value engine of choice (core/store/db.go, and formerly
// core/pulse/store.go's vertex persistence). AccountStore and ScriptStore
// below are the badger-backed counterparts to core/state's in-memory
// Overlay/InMemoryScriptView: they implement the same view interfaces and
// are used in their place (cmd/txapply passes them to execution.NewContext
// directly). The in-memory views do not read through to them.
package store

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"novacoin/core/crypto"
	"novacoin/core/types"
)

var ErrDuplicateRegID = errors.New("store: reg id already assigned to a different key id")

// AccountStore is a badger-backed state.AccountView.
type AccountStore struct {
	db *badger.DB
}

func NewAccountStore(db *badger.DB) *AccountStore { return &AccountStore{db: db} }

func acctKey(k types.KeyID) []byte {
	return append([]byte("acct:"), k[:]...)
}

func regKey(r types.RegID) []byte {
	return append([]byte("regid:"), r.Encode()...)
}

func encodeAccount(acc *types.Account) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(acc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeAccount(b []byte) (*types.Account, error) {
	var acc types.Account
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *AccountStore) resolveKeyTx(txn *badger.Txn, ref types.UserRef) (types.KeyID, bool, error) {
	switch ref.Kind {
	case types.RefKeyID:
		return ref.KeyID, true, nil
	case types.RefPubKey:
		return keyIDFromPubKey(ref.PubKey), true, nil
	case types.RefRegID:
		item, err := txn.Get(regKey(ref.RegID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return types.KeyID{}, false, nil
		}
		if err != nil {
			return types.KeyID{}, false, err
		}
		var key types.KeyID
		if err := item.Value(func(val []byte) error {
			copy(key[:], val)
			return nil
		}); err != nil {
			return types.KeyID{}, false, err
		}
		return key, true, nil
	default:
		return types.KeyID{}, false, nil
	}
}

func (s *AccountStore) GetAccount(ref types.UserRef) (*types.Account, bool, error) {
	var acc *types.Account
	err := s.db.View(func(txn *badger.Txn) error {
		key, ok, err := s.resolveKeyTx(txn, ref)
		if err != nil || !ok {
			return err
		}
		item, err := txn.Get(acctKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			a, err := decodeAccount(val)
			if err != nil {
				return err
			}
			acc = a
			return nil
		})
	})
	return acc, acc != nil, err
}

func (s *AccountStore) existingRegID(txn *badger.Txn, key types.KeyID) (types.RegID, bool) {
	item, err := txn.Get(acctKey(key))
	if err != nil {
		return types.RegID{}, false
	}
	var reg types.RegID
	item.Value(func(val []byte) error {
		acc, err := decodeAccount(val)
		if err == nil && acc.HasRegID() {
			reg = acc.RegID
		}
		return nil
	})
	return reg, !reg.IsZero()
}

func (s *AccountStore) SetAccount(acc *types.Account) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if oldReg, ok := s.existingRegID(txn, acc.KeyID); ok && oldReg != acc.RegID {
			txn.Delete(regKey(oldReg))
		}
		b, err := encodeAccount(acc)
		if err != nil {
			return err
		}
		if err := txn.Set(acctKey(acc.KeyID), b); err != nil {
			return err
		}
		if acc.HasRegID() {
			return txn.Set(regKey(acc.RegID), acc.KeyID[:])
		}
		return nil
	})
}

func (s *AccountStore) SaveRegistered(acc *types.Account) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if item, err := txn.Get(regKey(acc.RegID)); err == nil {
			var owner types.KeyID
			item.Value(func(val []byte) error { copy(owner[:], val); return nil })
			if owner != acc.KeyID {
				return ErrDuplicateRegID
			}
		}
		b, err := encodeAccount(acc)
		if err != nil {
			return err
		}
		if err := txn.Set(acctKey(acc.KeyID), b); err != nil {
			return err
		}
		return txn.Set(regKey(acc.RegID), acc.KeyID[:])
	})
}

func (s *AccountStore) EraseAccount(key types.KeyID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if reg, ok := s.existingRegID(txn, key); ok {
			txn.Delete(regKey(reg))
		}
		return txn.Delete(acctKey(key))
	})
}

func (s *AccountStore) EraseRegID(reg types.RegID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(regKey(reg))
	})
}

func (s *AccountStore) ResolveKeyID(ref types.UserRef) (types.KeyID, bool, error) {
	var key types.KeyID
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		k, found, err := s.resolveKeyTx(txn, ref)
		key, ok = k, found
		return err
	})
	return key, ok, err
}

func keyIDFromPubKey(pk types.PubKey) types.KeyID {
	return types.KeyID(crypto.Hash160(pk[:]))
}
