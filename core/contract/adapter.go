// Package contract defines the narrow facade core/execution drives to run
// a Contract-Call: SPEC_FULL.md §4.9 deliberately keeps the core ignorant
// of the VM's internal instruction semantics, matching the teacher's
// pattern of small, single-purpose interfaces (compare core/staking's
// ValidateBlock, which never reaches into consensus internals either).
// The VM itself is out of this system's scope; Reference below is a
// deterministic stand-in used by tests and by cmd/txapply until a real
// VM is wired behind this interface.
package contract

import (
	"novacoin/core/state"
	"novacoin/core/types"
	"novacoin/core/undo"
)

// Result is everything Execute needs back from an Adapter invocation.
type Result struct {
	OK               bool
	FuelUsed         uint64
	Err              error
	MutatedAccounts  []*types.Account
	AppUserAccounts  map[string][]byte // raw contract-local account namespace
	DbOps            []undo.DbPreimage
}

// Adapter is the deterministic-VM facade Contract-Call drives.
type Adapter interface {
	// Execute runs script against a transaction, given a cloned overlay
	// of the account and script views, the block height, fuel rate, and
	// the run-step meter's starting budget. It must be a pure function of
	// its inputs: same tx, same view contents, same result, always.
	Execute(
		tx *types.ContractCallTx,
		accounts state.AccountView,
		scripts state.ScriptView,
		height int64,
		fuelRate uint64,
		runStep uint64,
	) Result
}

// Fuel computes the billed fuel for runStep at fuelRate, floored at
// 1*COIN for Register-Contract. The original chain's comment calls this
// "ceil(runStep/100)" but the code was always plain truncating integer
// division, so a script of length 199 bills the same as one of length
// 100. That under-count is preserved here on purpose: fixing it would
// change historical fee requirements and break replay of any block
// signed against the old formula. See DESIGN.md Open Question 3.
func Fuel(runStep, fuelRate uint64, isRegisterContract bool) uint64 {
	units := runStep / 100
	fee := units * fuelRate
	if isRegisterContract && fee < types.COIN {
		return types.COIN
	}
	return fee
}
