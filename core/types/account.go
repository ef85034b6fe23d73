package types

import (
	"sort"

	safemath "novacoin/core/math"
)

// VotedFund is one entry of an account's frozen delegate-vote allocation:
// count coins locked in support of candidate.
type VotedFund struct {
	Candidate KeyID
	Amount    uint64
}

// Account is the mutable per-principal record. KeyID is the primary key;
// RegID, PubKey and MinerPubKey are optional and populated over the
// account's lifetime by Register-Account or by lazy assignment during a
// Base-Transfer execute.
type Account struct {
	KeyID         KeyID
	RegID         RegID
	PubKey        *PubKey
	MinerPubKey   *PubKey
	BCoins        uint64
	ReceivedVotes uint64
	VotedFunds    []VotedFund
}

// NewAccount returns an empty account rooted at key.
func NewAccount(key KeyID) *Account {
	return &Account{KeyID: key}
}

// Clone returns a deep copy, used to take undo pre-images.
func (a *Account) Clone() *Account {
	c := *a
	if a.PubKey != nil {
		pk := *a.PubKey
		c.PubKey = &pk
	}
	if a.MinerPubKey != nil {
		mk := *a.MinerPubKey
		c.MinerPubKey = &mk
	}
	c.VotedFunds = append([]VotedFund(nil), a.VotedFunds...)
	return &c
}

// IsRegistered reports whether the account has a known public key.
func (a *Account) IsRegistered() bool { return a.PubKey != nil }

// HasRegID reports whether a RegID has been assigned.
func (a *Account) HasRegID() bool { return !a.RegID.IsZero() }

// IsEmpty reports whether the account carries no value and no identity,
// making it safe to erase during undo.
func (a *Account) IsEmpty() bool {
	return a.BCoins == 0 &&
		a.ReceivedVotes == 0 &&
		len(a.VotedFunds) == 0 &&
		a.PubKey == nil &&
		a.MinerPubKey == nil &&
		a.RegID.IsZero()
}

// AddFree credits the free balance, rejecting overflow or a result outside
// [0, MaxMoney].
func (a *Account) AddFree(amount uint64) error {
	sum, err := safemath.SafeAdd(a.BCoins, amount)
	if err != nil {
		return err
	}
	if sum > MaxMoney {
		return ErrMoneyRange
	}
	a.BCoins = sum
	return nil
}

// SubFree debits the free balance, rejecting insufficient funds.
func (a *Account) SubFree(amount uint64) error {
	diff, err := safemath.SafeSub(a.BCoins, amount)
	if err != nil {
		return ErrInsufficientFunds
	}
	a.BCoins = diff
	return nil
}

// voteIndex returns the slice index of candidate's entry, or -1.
func (a *Account) voteIndex(candidate KeyID) int {
	for i := range a.VotedFunds {
		if a.VotedFunds[i].Candidate == candidate {
			return i
		}
	}
	return -1
}

// AddVote reserves amount from the free balance into VotedFunds[candidate],
// keeping the list ordered by amount descending, then candidate ascending.
func (a *Account) AddVote(candidate KeyID, amount uint64) error {
	if err := a.SubFree(amount); err != nil {
		return err
	}
	if i := a.voteIndex(candidate); i >= 0 {
		sum, err := safemath.SafeAdd(a.VotedFunds[i].Amount, amount)
		if err != nil {
			return err
		}
		a.VotedFunds[i].Amount = sum
	} else {
		a.VotedFunds = append(a.VotedFunds, VotedFund{Candidate: candidate, Amount: amount})
	}
	a.sortVotedFunds()
	return nil
}

// SubVote returns amount from VotedFunds[candidate] to the free balance,
// removing the entry once it reaches zero.
func (a *Account) SubVote(candidate KeyID, amount uint64) error {
	i := a.voteIndex(candidate)
	if i < 0 || a.VotedFunds[i].Amount < amount {
		return ErrInsufficientVotes
	}
	a.VotedFunds[i].Amount -= amount
	if a.VotedFunds[i].Amount == 0 {
		a.VotedFunds = append(a.VotedFunds[:i], a.VotedFunds[i+1:]...)
	}
	if err := a.AddFree(amount); err != nil {
		return err
	}
	a.sortVotedFunds()
	return nil
}

func (a *Account) sortVotedFunds() {
	sort.Slice(a.VotedFunds, func(i, j int) bool {
		if a.VotedFunds[i].Amount != a.VotedFunds[j].Amount {
			return a.VotedFunds[i].Amount > a.VotedFunds[j].Amount
		}
		return lessKeyID(a.VotedFunds[i].Candidate, a.VotedFunds[j].Candidate)
	})
}

func lessKeyID(a, b KeyID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
