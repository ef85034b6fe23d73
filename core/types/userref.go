package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"novacoin/core/wire"
)

// ErrBadRegID is returned when a byte blob does not decode to a valid RegID.
var ErrBadRegID = errors.New("types: malformed reg id")

// KeyID is a 20-byte hash-160 address, the primary key of an Account.
type KeyID [20]byte

func (k KeyID) String() string { return fmt.Sprintf("%x", k[:]) }

// IsZero reports whether k is the zero KeyID (never a valid address).
func (k KeyID) IsZero() bool { return k == KeyID{} }

// PubKey is a 33-byte compressed secp256k1 public key.
type PubKey [33]byte

func (p PubKey) String() string { return fmt.Sprintf("%x", p[:]) }

// IsZero reports whether p has never been set.
func (p PubKey) IsZero() bool { return p == PubKey{} }

// RegID is the compact (height, index) identifier assigned to an account
// the first time it is registered or lazily assigned on-chain.
type RegID struct {
	Height uint32
	Index  uint16
}

// IsZero reports whether r is the empty RegID (account not yet registered).
func (r RegID) IsZero() bool { return r.Height == 0 && r.Index == 0 }

func (r RegID) String() string { return fmt.Sprintf("%d-%d", r.Height, r.Index) }

// Encode writes the canonical varint(height) || varint(index) form. The
// length depends on the values: one byte per component below 128, up to
// 5 bytes for the height and 3 for the index, so 2 to 8 bytes in all.
func (r RegID) Encode() []byte {
	buf := make([]byte, 0, 6)
	buf = appendUvarint(buf, uint64(r.Height))
	buf = appendUvarint(buf, uint64(r.Index))
	return buf
}

// DecodeRegID parses the Encode format, returning the number of bytes
// consumed.
func DecodeRegID(b []byte) (RegID, int, error) {
	height, n1 := binary.Uvarint(b)
	if n1 <= 0 {
		return RegID{}, 0, ErrBadRegID
	}
	index, n2 := binary.Uvarint(b[n1:])
	if n2 <= 0 {
		return RegID{}, 0, ErrBadRegID
	}
	if height > 1<<32-1 || index > 1<<16-1 {
		return RegID{}, 0, ErrBadRegID
	}
	return RegID{Height: uint32(height), Index: uint16(index)}, n1 + n2, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return append(buf, tmp[:n]...)
}

// RefKind tags the variant carried by a UserRef.
type RefKind uint8

const (
	RefNull RefKind = iota
	RefRegID
	RefPubKey
	RefKeyID
)

func (k RefKind) String() string {
	switch k {
	case RefNull:
		return "null"
	case RefRegID:
		return "regid"
	case RefPubKey:
		return "pubkey"
	case RefKeyID:
		return "keyid"
	default:
		return "unknown"
	}
}

// UserRef is the tagged union a transaction uses to name a principal:
// nothing, a compact registry id, a raw public key, or a key-hash address.
// Only one of the payload fields is meaningful, selected by Kind.
type UserRef struct {
	Kind   RefKind
	RegID  RegID
	PubKey PubKey
	KeyID  KeyID
}

func NullRef() UserRef { return UserRef{Kind: RefNull} }

func RefFromRegID(r RegID) UserRef { return UserRef{Kind: RefRegID, RegID: r} }

func RefFromPubKey(pk PubKey) UserRef { return UserRef{Kind: RefPubKey, PubKey: pk} }

func RefFromKeyID(k KeyID) UserRef { return UserRef{Kind: RefKeyID, KeyID: k} }

func (u UserRef) IsNull() bool { return u.Kind == RefNull }

// WriteTo appends the canonical wire encoding of u: a one-byte kind tag
// followed by the kind-specific payload.
func (u UserRef) WriteTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(u.Kind))
	switch u.Kind {
	case RefRegID:
		wire.WriteCompactBytes(buf, u.RegID.Encode())
	case RefPubKey:
		buf.Write(u.PubKey[:])
	case RefKeyID:
		buf.Write(u.KeyID[:])
	}
}

// ReadUserRef parses the format WriteTo produces.
func ReadUserRef(r *bytes.Reader) (UserRef, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return UserRef{}, ErrBadRegID
	}
	switch RefKind(kindByte) {
	case RefNull:
		return NullRef(), nil
	case RefRegID:
		enc, err := wire.ReadCompactBytes(r, 8)
		if err != nil {
			return UserRef{}, err
		}
		reg, _, err := DecodeRegID(enc)
		if err != nil {
			return UserRef{}, err
		}
		return RefFromRegID(reg), nil
	case RefPubKey:
		var pk PubKey
		if _, err := io.ReadFull(r, pk[:]); err != nil {
			return UserRef{}, ErrBadRegID
		}
		return RefFromPubKey(pk), nil
	case RefKeyID:
		var k KeyID
		if _, err := io.ReadFull(r, k[:]); err != nil {
			return UserRef{}, ErrBadRegID
		}
		return RefFromKeyID(k), nil
	default:
		return UserRef{}, ErrBadRegID
	}
}

func (u UserRef) String() string {
	switch u.Kind {
	case RefRegID:
		return u.RegID.String()
	case RefPubKey:
		return u.PubKey.String()
	case RefKeyID:
		return u.KeyID.String()
	default:
		return "null"
	}
}
