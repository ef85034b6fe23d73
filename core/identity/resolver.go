// Package identity implements the first-match-wins UserRef resolution
// rules of SPEC_FULL.md §4.1: mapping any principal reference to its
// canonical KeyID and, when registered, its RegID. Repeated RegID lookups
// against the account view are cached with the teacher's generic LRU
// (core/cache), the same role it plays caching hot vertices in the
// original pulse package.
package identity

import (
	"bytes"
	"errors"
	"sort"

	"novacoin/core/cache"
	"novacoin/core/crypto"
	"novacoin/core/state"
	"novacoin/core/types"
	"novacoin/core/wire"
)

var ErrBadAddress = errors.New("identity: unresolvable user reference")

type resolved struct {
	KeyID types.KeyID
	RegID types.RegID
}

// Resolver resolves UserRefs against an account view, caching results.
type Resolver struct {
	av    state.AccountView
	cache *cache.LRU[types.UserRef, resolved]
}

// NewResolver returns a resolver backed by av with a cache sized for a
// single block's worth of repeated lookups.
func NewResolver(av state.AccountView, cacheSize int) *Resolver {
	return &Resolver{av: av, cache: cache.NewLRU[types.UserRef, resolved](cacheSize)}
}

// Resolve maps ref to a KeyID and, if registered, a RegID. It fails with
// ErrBadAddress only when ref is Null or is a RegID with no index entry;
// a fresh KeyID or PubKey reference resolves successfully even when no
// account yet exists at that address (account creation is the caller's
// job, not the resolver's).
func (r *Resolver) Resolve(ref types.UserRef) (types.KeyID, types.RegID, error) {
	if ref.Kind == types.RefNull {
		return types.KeyID{}, types.RegID{}, ErrBadAddress
	}
	if hit, ok := r.cache.Get(ref); ok {
		return hit.KeyID, hit.RegID, nil
	}

	var key types.KeyID
	switch ref.Kind {
	case types.RefKeyID:
		key = ref.KeyID
	case types.RefPubKey:
		key = types.KeyID(crypto.Hash160(ref.PubKey[:]))
	case types.RefRegID:
		k, ok, err := r.av.ResolveKeyID(ref)
		if err != nil {
			return types.KeyID{}, types.RegID{}, err
		}
		if !ok {
			return types.KeyID{}, types.RegID{}, ErrBadAddress
		}
		key = k
	default:
		return types.KeyID{}, types.RegID{}, ErrBadAddress
	}

	reg := types.RegID{}
	if acc, ok, err := r.av.GetAccount(types.RefFromKeyID(key)); err != nil {
		return types.KeyID{}, types.RegID{}, err
	} else if ok {
		reg = acc.RegID
	}

	r.cache.Set(ref, resolved{KeyID: key, RegID: reg})
	return key, reg, nil
}

// MustBeRegistered is a convenience for the many Check paths that require
// a resolvable, already-registered source account.
func (r *Resolver) MustBeRegistered(ref types.UserRef) (*types.Account, error) {
	key, _, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	acc, ok, err := r.av.GetAccount(types.RefFromKeyID(key))
	if err != nil {
		return nil, err
	}
	if !ok || !acc.IsRegistered() {
		return nil, ErrBadAddress
	}
	return acc, nil
}

// MultisigKeyID derives the script address of an M-of-N multisig account:
// hash160(encode(required, sorted(pubkeys))), per SPEC_FULL.md §4.11.
func MultisigKeyID(required uint8, pubKeys []types.PubKey) types.KeyID {
	sorted := append([]types.PubKey(nil), pubKeys...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	var buf bytes.Buffer
	buf.WriteByte(required)
	wire.WriteVarInt(&buf, uint64(len(sorted)))
	for _, pk := range sorted {
		buf.Write(pk[:])
	}
	return types.KeyID(crypto.Hash160(buf.Bytes()))
}
