package main

import (
	"encoding/hex"
	"fmt"

	"novacoin/core/crypto"
)

// keyInfo is the printable form of a freshly generated identity: enough to
// build a RegisterAccountTx.User field and later sign transactions from
// the same key, without persisting anything (no keystore, no encryption --
// this system's Non-goals place wallet/RPC framing out of scope).
type keyInfo struct {
	privateHex string
	publicHex  string
}

func (k keyInfo) String() string {
	return fmt.Sprintf("private (keep secret): %s\npublic (PubKey):        %s\n", k.privateHex, k.publicHex)
}

func newKeyPair() (keyInfo, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return keyInfo{}, err
	}
	return keyInfo{
		privateHex: hex.EncodeToString(kp.Private.Serialize()),
		publicHex:  hex.EncodeToString(kp.Public[:]),
	}, nil
}
