package state

import (
	"encoding/hex"

	"novacoin/core/types"
)

// AccountShadow and ScriptShadow are the "cloned overlay" SPEC_FULL.md
// §4.6 hands to the Contract Runtime Adapter: a write-buffering layer over
// the real views so a failed script run leaves no trace. This mirrors the
// nested-cache pattern the original chain uses around its VM (a CCacheWrapper
// stacked in front of the outer account/contract database) without adopting
// its C++ shape.
type AccountShadow struct {
	base      AccountView
	overrides map[types.KeyID]*types.Account
	erased    map[types.KeyID]bool
	regIndex  map[types.RegID]types.KeyID
	regErased map[types.RegID]bool
}

// NewAccountShadow returns a shadow reading through to base.
func NewAccountShadow(base AccountView) *AccountShadow {
	return &AccountShadow{
		base:      base,
		overrides: make(map[types.KeyID]*types.Account),
		erased:    make(map[types.KeyID]bool),
		regIndex:  make(map[types.RegID]types.KeyID),
		regErased: make(map[types.RegID]bool),
	}
}

func (s *AccountShadow) resolve(ref types.UserRef) (types.KeyID, bool, error) {
	switch ref.Kind {
	case types.RefKeyID:
		return ref.KeyID, true, nil
	case types.RefPubKey:
		return keyIDFromPubKey(ref.PubKey), true, nil
	case types.RefRegID:
		if s.regErased[ref.RegID] {
			return types.KeyID{}, false, nil
		}
		if k, ok := s.regIndex[ref.RegID]; ok {
			return k, true, nil
		}
		return s.base.ResolveKeyID(ref)
	default:
		return types.KeyID{}, false, nil
	}
}

func (s *AccountShadow) GetAccount(ref types.UserRef) (*types.Account, bool, error) {
	key, ok, err := s.resolve(ref)
	if err != nil || !ok {
		return nil, false, err
	}
	if s.erased[key] {
		return nil, false, nil
	}
	if acc, ok := s.overrides[key]; ok {
		return acc.Clone(), true, nil
	}
	return s.base.GetAccount(types.RefFromKeyID(key))
}

func (s *AccountShadow) put(acc *types.Account) {
	if existing, ok := s.overrides[acc.KeyID]; ok && existing.HasRegID() && existing.RegID != acc.RegID {
		delete(s.regIndex, existing.RegID)
	}
	s.overrides[acc.KeyID] = acc.Clone()
	delete(s.erased, acc.KeyID)
	if acc.HasRegID() {
		s.regIndex[acc.RegID] = acc.KeyID
		delete(s.regErased, acc.RegID)
	}
}

func (s *AccountShadow) SetAccount(acc *types.Account) error {
	s.put(acc)
	return nil
}

func (s *AccountShadow) SaveRegistered(acc *types.Account) error {
	s.put(acc)
	return nil
}

func (s *AccountShadow) EraseAccount(key types.KeyID) error {
	if acc, ok := s.overrides[key]; ok && acc.HasRegID() {
		s.regErased[acc.RegID] = true
		delete(s.regIndex, acc.RegID)
	}
	delete(s.overrides, key)
	s.erased[key] = true
	return nil
}

func (s *AccountShadow) EraseRegID(reg types.RegID) error {
	delete(s.regIndex, reg)
	s.regErased[reg] = true
	return nil
}

func (s *AccountShadow) ResolveKeyID(ref types.UserRef) (types.KeyID, bool, error) {
	return s.resolve(ref)
}

// Mutated returns every account this shadow overrode, in no particular
// order; the caller commits each into the real AccountView on success.
func (s *AccountShadow) Mutated() []*types.Account {
	out := make([]*types.Account, 0, len(s.overrides))
	for _, acc := range s.overrides {
		out = append(out, acc)
	}
	return out
}

// OpLog is one buffered secondary-index write, structurally identical to
// undo.DbPreimage but defined here (rather than imported) because
// core/undo already imports core/state.
type OpLog struct {
	Key      []byte
	OldValue []byte
	Existed  bool
}

// ScriptShadow buffers script and secondary-index writes the same way
// AccountShadow buffers account writes.
type ScriptShadow struct {
	base         ScriptView
	scripts      map[types.RegID][]byte
	scriptErased map[types.RegID]bool
	kv           map[string][]byte
	kvErased     map[string]bool
	ops          []OpLog
}

func NewScriptShadow(base ScriptView) *ScriptShadow {
	return &ScriptShadow{
		base:         base,
		scripts:      make(map[types.RegID][]byte),
		scriptErased: make(map[types.RegID]bool),
		kv:           make(map[string][]byte),
		kvErased:     make(map[string]bool),
	}
}

func (s *ScriptShadow) GetScript(reg types.RegID) ([]byte, bool, error) {
	if s.scriptErased[reg] {
		return nil, false, nil
	}
	if b, ok := s.scripts[reg]; ok {
		return b, true, nil
	}
	return s.base.GetScript(reg)
}

func (s *ScriptShadow) SetScript(reg types.RegID, blob []byte) error {
	s.scripts[reg] = append([]byte(nil), blob...)
	delete(s.scriptErased, reg)
	return nil
}

func (s *ScriptShadow) EraseScript(reg types.RegID) error {
	delete(s.scripts, reg)
	s.scriptErased[reg] = true
	return nil
}

func (s *ScriptShadow) Get(key []byte) ([]byte, bool, error) {
	k := hex.EncodeToString(key)
	if s.kvErased[k] {
		return nil, false, nil
	}
	if v, ok := s.kv[k]; ok {
		return v, true, nil
	}
	return s.base.Get(key)
}

func (s *ScriptShadow) Set(key, value []byte) ([]byte, bool, error) {
	old, existed, err := s.Get(key)
	if err != nil {
		return nil, false, err
	}
	k := hex.EncodeToString(key)
	s.kv[k] = append([]byte(nil), value...)
	delete(s.kvErased, k)
	s.ops = append(s.ops, OpLog{Key: append([]byte(nil), key...), OldValue: old, Existed: existed})
	return old, existed, nil
}

func (s *ScriptShadow) Erase(key []byte) ([]byte, bool, error) {
	old, existed, err := s.Get(key)
	if err != nil {
		return nil, false, err
	}
	k := hex.EncodeToString(key)
	s.kvErased[k] = true
	delete(s.kv, k)
	s.ops = append(s.ops, OpLog{Key: append([]byte(nil), key...), OldValue: old, Existed: existed})
	return old, existed, nil
}

// Ops returns the buffered secondary-index writes in application order.
func (s *ScriptShadow) Ops() []OpLog { return s.ops }
