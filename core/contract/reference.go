package contract

import (
	"encoding/binary"

	"novacoin/core/state"
	"novacoin/core/types"
)

// Reference is a deterministic stand-in for a real script VM. It
// interprets a tiny fixed opcode format (one instruction: "pay N to
// KeyID") purely so that Contract-Call has something concrete to drive
// end to end; it is authored fresh rather than grounded on any pack
// example, since script VM internals are explicitly out of scope for
// this system (SPEC_FULL.md §1 Non-goals) and none of the retrieved
// repos ship one that fits this account model. Everything upstream of
// Adapter.Execute — fuel accounting, undo-log merging, related-account
// tracking — is exercised identically whether Reference or a real VM
// sits behind the interface.
type Reference struct{}

// opPay is the only opcode Reference understands: 1 byte tag, 20-byte
// KeyID, 8-byte big-endian amount.
const opPay = 0x01

func (Reference) Execute(
	tx *types.ContractCallTx,
	accounts state.AccountView,
	scripts state.ScriptView,
	height int64,
	fuelRate uint64,
	runStep uint64,
) Result {
	script, ok, err := scripts.GetScript(tx.App)
	if err != nil || !ok {
		return Result{OK: false, Err: state.ErrAccountNotFound}
	}

	var mutated []*types.Account
	i := 0
	for i < len(script) {
		if script[i] != opPay || i+29 > len(script) {
			break
		}
		var dest types.KeyID
		copy(dest[:], script[i+1:i+21])
		amount := binary.BigEndian.Uint64(script[i+21 : i+29])
		i += 29

		acc, exists, err := accounts.GetAccount(types.RefFromKeyID(dest))
		if err != nil {
			return Result{OK: false, Err: err}
		}
		if !exists {
			acc = types.NewAccount(dest)
		}
		if err := acc.AddFree(amount); err != nil {
			return Result{OK: false, Err: err}
		}
		if err := accounts.SetAccount(acc); err != nil {
			return Result{OK: false, Err: err}
		}
		mutated = append(mutated, acc)
	}

	return Result{
		OK:              true,
		FuelUsed:        Fuel(runStep, fuelRate, false),
		MutatedAccounts: mutated,
	}
}
