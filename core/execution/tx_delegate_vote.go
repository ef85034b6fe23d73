package execution

import (
	"novacoin/core/crypto"
	"novacoin/core/types"
	"novacoin/core/undo"
	"novacoin/core/validation"
)

func checkDelegateVote(ctx *Context, tx *types.DelegateVoteTx) error {
	acc, err := ctx.Resolver.MustBeRegistered(types.RefFromRegID(tx.From))
	if err != nil {
		ctx.State.DoS(10, "source-not-registered", validation.ReadAccountFail, "delegate-vote")
		return ErrUnregistered
	}
	if len(tx.Operations) == 0 || len(tx.Operations) > types.MaxDelegates {
		ctx.State.DoS(100, "bad-operation-count", validation.RejectInvalid, "delegate-vote")
		return ErrTooManyVotes
	}

	seen := make(map[types.RegID]bool, len(tx.Operations))
	feat := types.FeatureSet(ctx.Height)
	for _, op := range tx.Operations {
		if seen[op.Candidate] {
			ctx.State.DoS(100, "duplicate-candidate", validation.RejectInvalid, "delegate-vote")
			return ErrDupCandidate
		}
		seen[op.Candidate] = true
		if op.Count == 0 || op.Count > types.MaxMoney {
			ctx.State.DoS(100, "bad-vote-count", validation.RejectInvalid, "delegate-vote")
			return ErrBadVoteCount
		}
		if feat.RequireCandidateRegistered {
			if _, err := ctx.Resolver.MustBeRegistered(types.RefFromRegID(op.Candidate)); err != nil {
				ctx.State.DoS(10, "candidate-not-registered", validation.ReadAccountFail, "delegate-vote")
				return ErrCandidateUnknown
			}
		}
	}

	if feat.RequireVoteSignature {
		if len(tx.Signature) == 0 || len(tx.Signature) > types.MaxSigSize {
			ctx.State.DoS(100, "bad-signature-size", validation.RejectInvalid, "delegate-vote")
			return ErrBadSigSize
		}
		if !crypto.Verify((*acc.PubKey)[:], tx.SerializeForSigning(), tx.Signature) {
			ctx.State.DoS(100, "signature-verify-failed", validation.RejectInvalid, "delegate-vote")
			return ErrBadSignature
		}
	}
	return nil
}

func executeDelegateVote(ctx *Context, tx *types.DelegateVoteTx) (*undo.TxUndo, error) {
	srcKey, _, err := ctx.Resolver.Resolve(types.RefFromRegID(tx.From))
	if err != nil {
		return nil, err
	}
	rec := undo.NewRecorder(tx.Hash(), ctx.Accounts)
	if err := rec.Snapshot(srcKey); err != nil {
		return nil, err
	}
	srcAcc, _, err := ctx.Accounts.GetAccount(types.RefFromKeyID(srcKey))
	if err != nil {
		return nil, err
	}
	if err := srcAcc.SubFree(tx.Fee); err != nil {
		ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "delegate-vote")
		return nil, err
	}

	for _, op := range tx.Operations {
		candKey, ok, err := ctx.Accounts.ResolveKeyID(types.RefFromRegID(op.Candidate))
		if err != nil {
			return nil, err
		}
		if !ok {
			ctx.State.DoS(10, "unknown-candidate", validation.ReadAccountFail, "delegate-vote")
			return nil, ErrCandidateUnknown
		}
		if err := rec.Snapshot(candKey); err != nil {
			return nil, err
		}

		// A self-vote targets the same account srcAcc already holds: reuse
		// that pointer instead of loading a second copy, so the ReceivedVotes
		// change lands on the record that actually gets persisted below
		// rather than being clobbered by the final SetAccount(srcAcc).
		selfVote := candKey == srcKey
		var candAcc *types.Account
		if selfVote {
			candAcc = srcAcc
		} else {
			candAcc, ok, err = ctx.Accounts.GetAccount(types.RefFromKeyID(candKey))
			if err != nil {
				return nil, err
			}
			if !ok {
				candAcc = types.NewAccount(candKey)
			}
		}

		if candAcc.ReceivedVotes > 0 {
			if err := eraseRank(rec, ctx.Scripts, candKey); err != nil {
				return nil, err
			}
		}

		switch op.Op {
		case types.VoteAdd:
			if err := srcAcc.AddVote(candKey, op.Count); err != nil {
				ctx.State.DoS(10, "insufficient-funds", validation.UpdateAccountFail, "delegate-vote")
				return nil, err
			}
			candAcc.ReceivedVotes += op.Count
		case types.VoteSub:
			if err := srcAcc.SubVote(candKey, op.Count); err != nil {
				ctx.State.DoS(10, "insufficient-votes", validation.UpdateAccountFail, "delegate-vote")
				return nil, err
			}
			candAcc.ReceivedVotes -= op.Count
		}

		if candAcc.ReceivedVotes > 0 {
			if err := setRank(rec, ctx.Scripts, candKey, candAcc.ReceivedVotes); err != nil {
				return nil, err
			}
		}
		if !selfVote {
			if err := ctx.Accounts.SetAccount(candAcc); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Accounts.SetAccount(srcAcc); err != nil {
		return nil, err
	}
	return rec.Finish(), nil
}

// undoDelegateVote is the generic undo.Apply path: the ranking index's
// alternating set-old/erase-new sequence reverses correctly by walking the
// DbOps list back to front, same as every other secondary-index write.
func undoDelegateVote(ctx *Context, u *undo.TxUndo) error {
	return undo.Apply(ctx.Accounts, ctx.Scripts, u)
}
