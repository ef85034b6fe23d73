package types

import "errors"

var (
	ErrMoneyRange        = errors.New("types: balance outside [0, MaxMoney]")
	ErrInsufficientFunds = errors.New("types: insufficient free balance")
	ErrInsufficientVotes = errors.New("types: insufficient voted funds")
)
