// Package player holds the player balance service. The settlement core
// only needs the narrow Ledger interface; the Badger-backed
// implementation is what the daemon wires in when no external wallet
// service is attached.
package player

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInsufficientFunds = errors.New("player: insufficient funds")

// Ledger is the external player-balance collaborator. All calls are
// fast and local; failures are surfaced to the caller, never retried
// here.
type Ledger interface {
	GetBalance(playerID string) (decimal.Decimal, error)
	// Credit adds to the balance and returns the new balance.
	Credit(playerID string, amount decimal.Decimal, reason string) (decimal.Decimal, error)
	// Debit subtracts from the balance and returns the new balance.
	// Debiting below zero fails with ErrInsufficientFunds.
	Debit(playerID string, amount decimal.Decimal, reason string) (decimal.Decimal, error)
}
