// Package execution dispatches the Check/Execute/UndoExecute lifecycle for
// every transaction kind, mirroring the shape of the teacher's
// Executor.Execute type switch (core/execution/executor.go in the original
// tree) but against the richer Account/UserRef model SPEC_FULL.md
// describes. Data types live in core/types; behavior lives entirely here,
// which is what lets core/types stay free of any dependency on state,
// undo, identity or contract.
package execution

import (
	"novacoin/core/contract"
	"novacoin/core/identity"
	"novacoin/core/state"
	"novacoin/core/validation"
)

// Context bundles everything a Check/Execute/UndoExecute call needs: the
// views it reads and writes, the identity resolver caching lookups against
// those views, the block position (height and in-block index, needed to
// mint fresh RegIDs), the fuel price, and the Contract Runtime Adapter.
type Context struct {
	Accounts state.AccountView
	Scripts  state.ScriptView
	Resolver *identity.Resolver
	Adapter  contract.Adapter

	Height   int64
	Index    int
	FuelRate uint64

	State *validation.State
}

// NewContext wires a Context around a fresh overlay pair for one block.
func NewContext(av state.AccountView, sv state.ScriptView, adapter contract.Adapter, height int64, fuelRate uint64) *Context {
	return &Context{
		Accounts: av,
		Scripts:  sv,
		Resolver: identity.NewResolver(av, 4096),
		Adapter:  adapter,
		Height:   height,
		FuelRate: fuelRate,
		State:    validation.New(),
	}
}
