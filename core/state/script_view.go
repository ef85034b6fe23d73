package state

import (
	"encoding/hex"
	"sync"

	"novacoin/core/types"
)

// ScriptView is the contract/index-side surface the execution core
// consumes: contract script storage plus the generic key/value surface
// backing the address->tx, delegate-ranking and related-accounts secondary
// indexes. Per SPEC_FULL.md Design Notes, the core treats those indexes as
// opaque (key, old-value) pairs, so a single generic Get/Set/Erase
// suffices instead of one typed accessor per index.
type ScriptView interface {
	GetScript(reg types.RegID) ([]byte, bool, error)
	SetScript(reg types.RegID, blob []byte) error
	EraseScript(reg types.RegID) error

	// Get/Set/Erase operate on the opaque secondary-index keyspace. Set
	// and Erase return the value that was previously stored (and whether
	// one existed), which is exactly the DbPreimage core/undo needs.
	Get(key []byte) ([]byte, bool, error)
	Set(key []byte, value []byte) (old []byte, existed bool, err error)
	Erase(key []byte) (old []byte, existed bool, err error)
}

// InMemoryScriptView is the overlay counterpart to Overlay, holding
// contract scripts and secondary-index entries in plain maps.
type InMemoryScriptView struct {
	mu       sync.RWMutex
	scripts  map[types.RegID][]byte
	kv       map[string][]byte
}

func NewInMemoryScriptView() *InMemoryScriptView {
	return &InMemoryScriptView{
		scripts: make(map[types.RegID][]byte),
		kv:      make(map[string][]byte),
	}
}

func (v *InMemoryScriptView) GetScript(reg types.RegID) ([]byte, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.scripts[reg]
	return b, ok, nil
}

func (v *InMemoryScriptView) SetScript(reg types.RegID, blob []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scripts[reg] = append([]byte(nil), blob...)
	return nil
}

func (v *InMemoryScriptView) EraseScript(reg types.RegID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.scripts, reg)
	return nil
}

func (v *InMemoryScriptView) Get(key []byte) ([]byte, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.kv[hex.EncodeToString(key)]
	return b, ok, nil
}

func (v *InMemoryScriptView) Set(key, value []byte) ([]byte, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	k := hex.EncodeToString(key)
	old, existed := v.kv[k]
	v.kv[k] = append([]byte(nil), value...)
	return old, existed, nil
}

func (v *InMemoryScriptView) Erase(key []byte) ([]byte, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	k := hex.EncodeToString(key)
	old, existed := v.kv[k]
	delete(v.kv, k)
	return old, existed, nil
}
