// Package ingest is the wager acceptance path: chat message in, ledger
// record plus stake debit out. Everything that can reject a message
// lives here so the ledger only ever sees accepted wagers.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/events"
	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/ledger"
	"github.com/pc28bot/settler/internal/odds"
	"github.com/pc28bot/settler/internal/parser"
	"github.com/pc28bot/settler/internal/player"
)

// Policy controls repeated wagers from one player in one period.
type Policy string

const (
	// PolicyAdd accepts every wager independently.
	PolicyAdd Policy = "add"
	// PolicyDedupe drops a message whose text repeats one the player
	// already has in the open period.
	PolicyDedupe Policy = "dedupe"
)

var (
	ErrNotWager            = errors.New("ingest: not a wager")
	ErrChannelDisabled     = errors.New("ingest: channel not enabled")
	ErrNoOpenPeriod        = errors.New("ingest: no open period")
	ErrPeriodSealed        = errors.New("ingest: period already sealed")
	ErrOppositeCombo       = errors.New("ingest: opposing wagers in one message")
	ErrBelowMinimum        = errors.New("ingest: every item below the stake floor")
	ErrInsufficientBalance = errors.New("ingest: insufficient balance")
	ErrDuplicate           = errors.New("ingest: duplicate wager")
)

// Service accepts chat messages into the bet ledger.
type Service struct {
	bets      *ledger.BetStore
	summaries *ledger.SummaryStore
	table     *odds.Table
	players   player.Ledger
	policy    Policy
	channels  map[string]bool // empty means every channel is allowed
	now       func() time.Time

	mu         sync.RWMutex
	openPeriod string
}

func NewService(
	bets *ledger.BetStore,
	summaries *ledger.SummaryStore,
	table *odds.Table,
	players player.Ledger,
	policy Policy,
	channels []string,
) *Service {
	allowed := make(map[string]bool, len(channels))
	for _, ch := range channels {
		allowed[ch] = true
	}
	if policy == "" {
		policy = PolicyAdd
	}
	return &Service{
		bets:      bets,
		summaries: summaries,
		table:     table,
		players:   players,
		policy:    policy,
		channels:  allowed,
		now:       time.Now,
	}
}

// SetOpenPeriod records the period used for messages that do not carry
// one. The draw pipeline advances it after every settled draw.
func (s *Service) SetOpenPeriod(period string) {
	s.mu.Lock()
	s.openPeriod = period
	s.mu.Unlock()
}

func (s *Service) OpenPeriod() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openPeriod
}

// HandleChat runs the full acceptance pipeline. The returned error
// names the rejection; a rejected message leaves no trace in the
// ledger or the player's balance.
func (s *Service) HandleChat(msg events.ChatMessage) (*game.WagerRecord, error) {
	if !msg.IsGroup || (msg.Type != "" && msg.Type != "text") {
		return nil, ErrNotWager
	}
	if len(s.channels) > 0 && !s.channels[msg.ChannelID] {
		return nil, ErrChannelDisabled
	}

	parsed, ok := parser.Parse(msg.Content)
	if !ok {
		return nil, ErrNotWager
	}

	period := msg.Period
	if period == "" {
		period = s.OpenPeriod()
	}
	if period == "" {
		return nil, ErrNoOpenPeriod
	}

	now := s.now()
	day := now.Format(ledger.DayFormat)
	sealed, err := s.summaries.Exists(day, msg.ChannelID, period)
	if err != nil {
		return nil, fmt.Errorf("ingest: sealed check: %w", err)
	}
	if sealed {
		return nil, ErrPeriodSealed
	}

	if hasOpposites(parsed.Items) {
		return nil, ErrOppositeCombo
	}

	items, total := s.applyLimits(parsed.Items)
	if len(items) == 0 {
		return nil, ErrBelowMinimum
	}

	balance, err := s.players.GetBalance(msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("ingest: balance lookup: %w", err)
	}
	if !balance.IsPositive() || total.GreaterThan(balance) {
		return nil, ErrInsufficientBalance
	}

	if s.policy == PolicyDedupe {
		dup, err := s.isDuplicate(day, msg.ChannelID, period, msg.SenderID, msg.Content)
		if err != nil {
			return nil, fmt.Errorf("ingest: duplicate check: %w", err)
		}
		if dup {
			return nil, ErrDuplicate
		}
	}

	if _, err := s.players.Debit(msg.SenderID, total, "wager "+period); err != nil {
		return nil, fmt.Errorf("ingest: debit stake: %w", err)
	}

	normalized := make([]string, 0, len(items))
	for _, it := range items {
		normalized = append(normalized, it.Normalized())
	}
	rec := &game.WagerRecord{
		Period:        period,
		ChannelID:     msg.ChannelID,
		PlayerID:      msg.SenderID,
		PlayerName:    msg.SenderName,
		RawText:       msg.Content,
		Normalized:    strings.Join(normalized, " "),
		Items:         items,
		TotalAmount:   total,
		BalanceBefore: balance,
		Time:          now,
	}
	if err := s.bets.Append(rec); err != nil {
		// Give the stake back rather than leaving a debit with no
		// ledger record behind it.
		if _, cerr := s.players.Credit(msg.SenderID, total, "refund "+period); cerr != nil {
			slog.Error("Refund after failed append also failed, manual reconciliation needed",
				"player", msg.SenderID, "period", period, "amount", total, "error", cerr)
		}
		return nil, fmt.Errorf("ingest: append record: %w", err)
	}

	slog.Info("Wager accepted",
		"player", msg.SenderID,
		"channel", msg.ChannelID,
		"period", period,
		"total", total,
		"items", len(items),
	)
	return rec, nil
}

// applyLimits drops items under the kind's stake floor and clamps the
// rest to the ceiling. Settlement re-applies the same clamp when it
// re-parses the raw text.
func (s *Service) applyLimits(items []game.WagerItem) ([]game.WagerItem, decimal.Decimal) {
	snapshot := s.table.Snapshot()
	kept := make([]game.WagerItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		limits := snapshot.LimitsFor(it.Kind)
		if limits.BelowFloor(it.Amount) {
			continue
		}
		it.Amount = limits.Clamp(it.Amount)
		kept = append(kept, it)
		total = total.Add(it.Amount)
	}
	return kept, total
}

// hasOpposites rejects a message staking both sides of big/small or
// odd/even at once.
func hasOpposites(items []game.WagerItem) bool {
	var big, small, odd, even bool
	for _, it := range items {
		switch it.Kind {
		case game.KindBigSmall:
			big = big || it.Code == game.CodeBig
			small = small || it.Code == game.CodeSmall
		case game.KindOddEven:
			odd = odd || it.Code == game.CodeOdd
			even = even || it.Code == game.CodeEven
		}
	}
	return (big && small) || (odd && even)
}

func (s *Service) isDuplicate(day, channelID, period, playerID, raw string) (bool, error) {
	records, err := s.bets.Query(day, channelID, period)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.PlayerID == playerID && rec.RawText == raw {
			return true, nil
		}
	}
	return false, nil
}
