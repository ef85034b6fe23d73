// Package crypto wraps the secp256k1 signing primitives and the hash-160
// address derivation this system's UserRef/KeyID model requires. The
// teacher's own crypto package used Ed25519 with 32-byte keys; the 33-byte
// compressed public key and "fully valid curve point" checks the account
// model needs rule that out, so this package is grounded on the pack's
// vechain-thor module instead, which carries the same secp256k1 library.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160"
)

var ErrBadPubKey = errors.New("crypto: not a valid compressed public key")

// KeyPair is a secp256k1 signing identity.
type KeyPair struct {
	Private *secp256k1.PrivateKey
	Public  [33]byte
}

// GenerateKeyPair creates a fresh secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	var pub [33]byte
	copy(pub[:], priv.PubKey().SerializeCompressed())
	return &KeyPair{Private: priv, Public: pub}, nil
}

// KeyPairFromSeed rebuilds a key pair from a 32-byte private scalar.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != 32 {
		return nil, errors.New("crypto: seed must be 32 bytes")
	}
	priv := secp256k1.PrivKeyFromBytes(seed)
	var pub [33]byte
	copy(pub[:], priv.PubKey().SerializeCompressed())
	return &KeyPair{Private: priv, Public: pub}, nil
}

// Sign produces a DER-encoded ECDSA signature over sha256(msg).
func (kp *KeyPair) Sign(msg []byte) []byte {
	h := sha256.Sum256(msg)
	sig := ecdsa.Sign(kp.Private, h[:])
	return sig.Serialize()
}

// Verify checks a DER-encoded ECDSA signature against a compressed public
// key. It returns false, rather than erroring, for any malformed input so
// callers can fold it directly into a Check() boolean chain.
func Verify(pubKey []byte, msg []byte, sig []byte) bool {
	pk, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	h := sha256.Sum256(msg)
	return parsed.Verify(h[:], pk)
}

// IsFullyValidPubKey reports whether b is a well-formed compressed
// secp256k1 curve point, the check Register-Account and Multisig run
// before ever deriving a KeyID from a supplied key.
func IsFullyValidPubKey(b []byte) bool {
	if len(b) != 33 {
		return false
	}
	_, err := secp256k1.ParsePubKey(b)
	return err == nil
}

// Hash160 computes ripemd160(sha256(x)), the address-derivation hash used
// everywhere a KeyID is built from a public key or a RegID blob.
func Hash160(x []byte) [20]byte {
	sh := sha256.Sum256(x)
	rh := ripemd160.New()
	rh.Write(sh[:])
	var out [20]byte
	copy(out[:], rh.Sum(nil))
	return out
}

// DoubleSHA256 computes sha256(sha256(x)), used for the transaction and
// signature hash.
func DoubleSHA256(x []byte) [32]byte {
	first := sha256.Sum256(x)
	return sha256.Sum256(first[:])
}

// RandBytes fills and returns n cryptographically random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
