package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/kvstore"
)

// Transaction is one balance movement, kept for reconciliation.
type Transaction struct {
	ID       string          `json:"id"`
	PlayerID string          `json:"player_id"`
	Type     string          `json:"type"` // credit | debit
	Amount   decimal.Decimal `json:"amount"`
	Balance  decimal.Decimal `json:"balance"`
	Reason   string          `json:"reason"`
	Time     time.Time       `json:"time"`
}

// BadgerLedger keeps balances and a per-player transaction trail in
// the shared KV store.
type BadgerLedger struct {
	store kvstore.KVStore
	mu    sync.Mutex
}

func NewBadgerLedger(store kvstore.KVStore) *BadgerLedger {
	return &BadgerLedger{store: store}
}

func balanceKey(playerID string) string {
	return "player/" + playerID + "/balance"
}

func txnKey(playerID, id string) string {
	return "player/" + playerID + "/txn/" + id
}

func (l *BadgerLedger) GetBalance(playerID string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(playerID)
}

func (l *BadgerLedger) balance(playerID string) (decimal.Decimal, error) {
	data, err := l.store.Get(balanceKey(playerID))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("load balance: %w", err)
	}
	bal, err := decimal.NewFromString(string(data))
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance for %s: %w", playerID, err)
	}
	return bal, nil
}

func (l *BadgerLedger) Credit(playerID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return l.apply(playerID, amount, "credit", reason)
}

func (l *BadgerLedger) Debit(playerID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return l.apply(playerID, amount.Neg(), "debit", reason)
}

func (l *BadgerLedger) apply(playerID string, delta decimal.Decimal, typ, reason string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, err := l.balance(playerID)
	if err != nil {
		return decimal.Zero, err
	}
	next := bal.Add(delta)
	if next.IsNegative() {
		return bal, ErrInsufficientFunds
	}
	if err := l.store.Set(balanceKey(playerID), []byte(next.String())); err != nil {
		return bal, fmt.Errorf("store balance: %w", err)
	}

	txn := Transaction{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Type:     typ,
		Amount:   delta.Abs(),
		Balance:  next,
		Reason:   reason,
		Time:     time.Now(),
	}
	if data, err := json.Marshal(txn); err == nil {
		// The trail is best-effort: a failed write never rolls back
		// the balance itself.
		_ = l.store.Set(txnKey(playerID, txn.ID), data)
	}
	return next, nil
}

// SetBalance overwrites a player's balance, used by administrative
// top-ups and by tests.
func (l *BadgerLedger) SetBalance(playerID string, balance decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Set(balanceKey(playerID), []byte(balance.String()))
}

// Transactions returns a player's movement trail.
func (l *BadgerLedger) Transactions(playerID string) ([]Transaction, error) {
	entries, err := l.store.Scan("player/" + playerID + "/txn/")
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	txns := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		var txn Transaction
		if err := json.Unmarshal(e.Value, &txn); err != nil {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
