// Package state defines the account and script views the execution core
// consumes (see SPEC_FULL.md §6) and an in-memory overlay implementation.
// The overlay is a direct generalization of the teacher's
// core/execution.StateManager: same map-plus-mutex shape, extended from a
// flat balance/nonce record to the full Account model and from a single
// lookup key to the three ways a UserRef can name a principal.
package state

import (
	"errors"
	"sync"

	"novacoin/core/crypto"
	"novacoin/core/types"
)

var (
	ErrAccountNotFound = errors.New("state: account not found")
	ErrRegIDNotFound   = errors.New("state: reg id not found")
	ErrDuplicateRegID  = errors.New("state: reg id already assigned")
)

// AccountView is the account-side surface the execution core consumes.
// It is satisfied by the in-memory Overlay below and, separately, by the
// badger-backed AccountStore in core/store; Overlay does not read through
// to a store.
type AccountView interface {
	// GetAccount resolves ref and returns its account, or
	// (nil, false, nil) if ref names no existing account.
	GetAccount(ref types.UserRef) (*types.Account, bool, error)
	// SetAccount writes acc back under its own KeyID.
	SetAccount(acc *types.Account) error
	// SaveRegistered atomically writes acc and its RegID -> KeyID index
	// entry. Returns ErrDuplicateRegID if the RegID is already assigned
	// to a different KeyID.
	SaveRegistered(acc *types.Account) error
	// EraseAccount removes an account entirely (undo-only operation).
	EraseAccount(key types.KeyID) error
	// EraseRegID removes only the RegID -> KeyID index entry.
	EraseRegID(reg types.RegID) error
	// ResolveKeyID resolves ref to a KeyID without loading the account.
	ResolveKeyID(ref types.UserRef) (types.KeyID, bool, error)
}

type overlayEntry struct {
	account *types.Account
}

// Overlay is a single-writer, in-memory account view. Callers obtain one
// per block (or per replay) and discard it on any Execute failure, so a
// rejected transaction never leaks a partial mutation.
type Overlay struct {
	mu       sync.RWMutex
	byKeyID  map[types.KeyID]*overlayEntry
	byRegID  map[types.RegID]types.KeyID
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		byKeyID: make(map[types.KeyID]*overlayEntry),
		byRegID: make(map[types.RegID]types.KeyID),
	}
}

func (o *Overlay) resolveLocked(ref types.UserRef) (types.KeyID, bool) {
	switch ref.Kind {
	case types.RefKeyID:
		return ref.KeyID, true
	case types.RefPubKey:
		return keyIDFromPubKey(ref.PubKey), true
	case types.RefRegID:
		k, ok := o.byRegID[ref.RegID]
		return k, ok
	default:
		return types.KeyID{}, false
	}
}

func (o *Overlay) GetAccount(ref types.UserRef) (*types.Account, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	key, ok := o.resolveLocked(ref)
	if !ok {
		return nil, false, nil
	}
	entry, ok := o.byKeyID[key]
	if !ok {
		return nil, false, nil
	}
	return entry.account.Clone(), true, nil
}

func (o *Overlay) SetAccount(acc *types.Account) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.byKeyID[acc.KeyID]; ok && existing.account.HasRegID() && existing.account.RegID != acc.RegID {
		delete(o.byRegID, existing.account.RegID)
	}
	o.byKeyID[acc.KeyID] = &overlayEntry{account: acc.Clone()}
	if acc.HasRegID() {
		o.byRegID[acc.RegID] = acc.KeyID
	}
	return nil
}

func (o *Overlay) SaveRegistered(acc *types.Account) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.byRegID[acc.RegID]; ok && existing != acc.KeyID {
		return ErrDuplicateRegID
	}
	o.byKeyID[acc.KeyID] = &overlayEntry{account: acc.Clone()}
	o.byRegID[acc.RegID] = acc.KeyID
	return nil
}

func (o *Overlay) EraseAccount(key types.KeyID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if entry, ok := o.byKeyID[key]; ok && entry.account.HasRegID() {
		delete(o.byRegID, entry.account.RegID)
	}
	delete(o.byKeyID, key)
	return nil
}

func (o *Overlay) EraseRegID(reg types.RegID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.byRegID, reg)
	return nil
}

func (o *Overlay) ResolveKeyID(ref types.UserRef) (types.KeyID, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	k, ok := o.resolveLocked(ref)
	return k, ok, nil
}

// keyIDFromPubKey derives the address for a bare PubKey reference. Full
// identity resolution (with caching across repeated lookups) lives in
// core/identity; this is the same one-line derivation it performs, kept
// here too so a plain Overlay is independently usable without pulling in
// the resolver.
func keyIDFromPubKey(pk types.PubKey) types.KeyID {
	return types.KeyID(crypto.Hash160(pk[:]))
}
