package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/kvstore"
)

const settlePrefix = "settle"

// ItemOutcome is one wager item's settlement result inside a player's
// breakdown.
type ItemOutcome struct {
	Kind   string          `json:"kind"`
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
	Profit decimal.Decimal `json:"profit"`
}

// PlayerSettlement is one player's totals for one period. Error holds
// a failed balance update for manual reconciliation; the rest of the
// period settles regardless.
type PlayerSettlement struct {
	PlayerID      string          `json:"player_id"`
	PlayerName    string          `json:"player_name"`
	TotalStake    decimal.Decimal `json:"total_stake"`
	TotalPayout   decimal.Decimal `json:"total_payout"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Items         []ItemOutcome   `json:"items"`
	Error         string          `json:"error,omitempty"`
}

// SettlementSummary is the per-(day, channel, period) settlement
// document. Its presence in the store is the idempotence marker: a
// period with a summary is never settled again.
type SettlementSummary struct {
	Day         string             `json:"day"`
	Period      string             `json:"period"`
	ChannelID   string             `json:"channel_id"`
	D1          int                `json:"d1"`
	D2          int                `json:"d2"`
	D3          int                `json:"d3"`
	Sum         int                `json:"sum"`
	PlayerCount int                `json:"player_count"`
	TotalStake  decimal.Decimal    `json:"total_stake"`
	TotalPayout decimal.Decimal    `json:"total_payout"`
	HouseProfit decimal.Decimal    `json:"house_profit"`
	Players     []PlayerSettlement `json:"players"`
	Text        string             `json:"text"`
	SettledAt   time.Time          `json:"settled_at"`
}

// SummaryStore persists settlement summaries as JSON documents.
type SummaryStore struct {
	store kvstore.KVStore
}

func NewSummaryStore(store kvstore.KVStore) *SummaryStore {
	return &SummaryStore{store: store}
}

func summaryKey(day, channelID, period string) string {
	return fmt.Sprintf("%s/%s/%s/%s", settlePrefix, day, channelID, period)
}

func (s *SummaryStore) Put(sum *SettlementSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal settlement summary: %w", err)
	}
	key := summaryKey(sum.Day, sum.ChannelID, sum.Period)
	if err := s.store.Set(key, data); err != nil {
		return fmt.Errorf("store settlement summary: %w", err)
	}
	return nil
}

func (s *SummaryStore) Get(day, channelID, period string) (*SettlementSummary, error) {
	data, err := s.store.Get(summaryKey(day, channelID, period))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load settlement summary: %w", err)
	}
	var sum SettlementSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("unmarshal settlement summary: %w", err)
	}
	return &sum, nil
}

// Exists reports whether the period was already settled.
func (s *SummaryStore) Exists(day, channelID, period string) (bool, error) {
	return s.store.Has(summaryKey(day, channelID, period))
}
