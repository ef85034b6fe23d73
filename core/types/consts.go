// Package types defines the wire-level data structures shared by every
// package in the transaction execution core: principal references, the
// account record, and the seven transaction kinds plus their common
// header. Nothing in this package touches an account or script database;
// that behavior lives in core/execution.
package types

// Money units. COIN is the smallest human-facing unit; all balances are
// carried in base units (1 COIN = 1e8 base units, following the teacher's
// nanoNVN convention but renamed to match this system's coin).
const (
	COIN     = 100000000
	MaxMoney = 21000000 * COIN
)

// Structural limits enforced at Check time.
const (
	MemoMax      = 100    // bytes, Base-Transfer / Multisig memo
	ArgMax       = 4096   // bytes, Contract-Call arguments
	MaxSigSize   = 100    // bytes, a single ECDSA signature
	MulsigMax    = 15     // maximum signers on a Multisig account
	MaxDelegates = 11     // maximum vote operations per Delegate-Vote tx
	MinTxFee     = 10000  // base units, enforced post fork (see FeatureSet)
)

// MajorVerR2 is the height at which the second protocol fork activates.
// Below this height, historical blocks must replay exactly as they did
// before the fork: no minimum fee, no signature check on votes, no
// registration requirement on vote candidates.
const MajorVerR2 int64 = 100000

// Features is the set of fork-gated behaviors active at a given height.
// Every height-sensitive branch in core/execution reads this struct
// instead of comparing heights inline, so a replay bug is a one-line
// fix in FeatureSet rather than a hunt through seven transaction kinds.
type Features struct {
	EnforceMinFee          bool
	RequireVoteSignature   bool
	RequireCandidateRegistered bool
}

// FeatureSet returns the fork-gated behavior active at height.
func FeatureSet(height int64) Features {
	r2 := height >= MajorVerR2
	return Features{
		EnforceMinFee:              r2,
		RequireVoteSignature:       r2,
		RequireCandidateRegistered: r2,
	}
}
