package settle

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/ledger"
	"github.com/pc28bot/settler/internal/odds"
	"github.com/pc28bot/settler/internal/parser"
	"github.com/pc28bot/settler/internal/player"
)

// EventSink receives settlement outputs. The NATS emitter implements
// it in the daemon; tests plug in a recorder.
type EventSink interface {
	EmitBill(channelID, text string) error
	EmitSettlementComplete(period string, playerCount int, totalProfit decimal.Decimal) error
}

// Orchestrator reacts to draw results: it reads the period's wagers,
// settles them per player, applies balances, persists the summary and
// clears the ledger. Settlement of the same (channel, period) is
// serialized; different keys run concurrently.
type Orchestrator struct {
	bets      *ledger.BetStore
	summaries *ledger.SummaryStore
	table     *odds.Table
	players   player.Ledger
	sink      EventSink
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOrchestrator(
	bets *ledger.BetStore,
	summaries *ledger.SummaryStore,
	table *odds.Table,
	players player.Ledger,
	sink EventSink,
) *Orchestrator {
	return &Orchestrator{
		bets:      bets,
		summaries: summaries,
		table:     table,
		players:   players,
		sink:      sink,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) lockFor(key string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[key]
	if !ok {
		l = &sync.Mutex{}
		o.locks[key] = l
	}
	return l
}

// OnDrawResult settles every channel that wagered on the result's
// period. A period with no records is a no-op. Ledger read failures
// are logged and treated as "no records" so the draw stream keeps
// flowing.
func (o *Orchestrator) OnDrawResult(res game.DrawResult) error {
	day := o.now().Format(ledger.DayFormat)
	records, err := o.bets.Query(day, "", res.Period)
	if err != nil {
		slog.Error("Ledger read failed, treating period as empty",
			"period", res.Period, "error", err)
		return nil
	}
	if len(records) == 0 {
		slog.Info("No wagers for period, nothing to settle", "period", res.Period)
		return nil
	}

	byChannel := groupRecords(records, func(r *game.WagerRecord) string { return r.ChannelID })

	var errs []error
	for _, ch := range byChannel.keys {
		if err := o.settleChannel(day, ch, res, byChannel.groups[ch]); err != nil {
			slog.Error("Channel settlement failed",
				"period", res.Period, "channel", ch, "error", err)
			errs = append(errs, fmt.Errorf("channel %s: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) settleChannel(day, channelID string, res game.DrawResult, records []*game.WagerRecord) error {
	l := o.lockFor(day + "/" + channelID + "/" + res.Period)
	l.Lock()
	defer l.Unlock()

	// The persisted summary is the idempotence guard: a duplicate draw
	// event finds it and stops before touching any balance.
	exists, err := o.summaries.Exists(day, channelID, res.Period)
	if err != nil {
		return fmt.Errorf("check summary: %w", err)
	}
	if exists {
		slog.Info("Period already settled, skipping",
			"period", res.Period, "channel", channelID)
		return nil
	}

	snapshot := o.table.Snapshot()
	byPlayer := groupRecords(records, func(r *game.WagerRecord) string { return r.PlayerID })

	sum := &ledger.SettlementSummary{
		Day:       day,
		Period:    res.Period,
		ChannelID: channelID,
		D1:        res.D1,
		D2:        res.D2,
		D3:        res.D3,
		Sum:       res.Sum(),
		SettledAt: o.now(),
	}
	for _, pid := range byPlayer.keys {
		ps := o.settlePlayer(snapshot, pid, res, byPlayer.groups[pid])
		sum.Players = append(sum.Players, ps)
		sum.TotalStake = sum.TotalStake.Add(ps.TotalStake)
		sum.TotalPayout = sum.TotalPayout.Add(ps.TotalPayout)
	}
	sum.PlayerCount = len(sum.Players)
	sum.HouseProfit = sum.TotalStake.Sub(sum.TotalPayout)
	sum.Text = renderBill(res, sum.Players)

	if err := o.summaries.Put(sum); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}

	if o.sink != nil {
		if err := o.sink.EmitBill(channelID, sum.Text); err != nil {
			slog.Error("Bill emit failed", "period", res.Period, "error", err)
		}
		houseNet := sum.TotalPayout.Sub(sum.TotalStake)
		if err := o.sink.EmitSettlementComplete(res.Period, sum.PlayerCount, houseNet); err != nil {
			slog.Error("Settlement event emit failed", "period", res.Period, "error", err)
		}
	}

	if err := o.bets.Clear(day, channelID, res.Period); err != nil {
		return fmt.Errorf("clear period: %w", err)
	}
	slog.Info("Period settled",
		"period", res.Period,
		"channel", channelID,
		"players", sum.PlayerCount,
		"stake", sum.TotalStake,
		"payout", sum.TotalPayout,
	)
	return nil
}

// settlePlayer re-parses each record's raw text rather than trusting a
// cached item list, so parser and rule fixes apply retroactively to
// text that was ingested earlier. Stake ceilings are re-applied the
// same way the ingester applied them, keeping the settled stake equal
// to what was debited.
func (o *Orchestrator) settlePlayer(snapshot *odds.Snapshot, playerID string, res game.DrawResult, records []*game.WagerRecord) ledger.PlayerSettlement {
	ps := ledger.PlayerSettlement{PlayerID: playerID}

	for _, rec := range records {
		ps.PlayerName = rec.PlayerName
		parsed, ok := parser.Parse(rec.RawText)
		if !ok {
			slog.Warn("Stored wager text no longer parses, skipping record",
				"player", playerID, "period", res.Period, "raw", rec.RawText)
			continue
		}
		for _, item := range parsed.Items {
			limits := snapshot.LimitsFor(item.Kind)
			if limits.BelowFloor(item.Amount) {
				continue
			}
			item.Amount = limits.Clamp(item.Amount)

			profit := SettleWith(snapshot, item, res)
			ps.TotalStake = ps.TotalStake.Add(item.Amount)
			ps.NetProfit = ps.NetProfit.Add(profit)
			ps.Items = append(ps.Items, ledger.ItemOutcome{
				Kind:   item.Kind.String(),
				Code:   item.Code,
				Amount: item.Amount,
				Profit: profit,
			})
		}
	}

	// Stakes were debited at acceptance, so the settlement credit is
	// the gross return: stake plus net profit. A pure loss credits
	// nothing; a break-even run returns exactly the stake.
	ps.TotalPayout = ps.TotalStake.Add(ps.NetProfit)

	balance, err := o.players.GetBalance(playerID)
	if err != nil {
		ps.Error = fmt.Sprintf("get balance: %v", err)
		slog.Error("Balance lookup failed, player needs manual reconciliation",
			"player", playerID, "period", res.Period, "error", err)
		return ps
	}
	ps.BalanceBefore = balance
	ps.BalanceAfter = balance

	if ps.TotalPayout.IsPositive() {
		after, err := o.players.Credit(playerID, ps.TotalPayout, "settle "+res.Period)
		if err != nil {
			// One player's failed credit never blocks the rest of the
			// period; it is recorded for manual reconciliation.
			ps.Error = fmt.Sprintf("credit payout: %v", err)
			slog.Error("Payout credit failed, player needs manual reconciliation",
				"player", playerID, "period", res.Period,
				"payout", ps.TotalPayout, "error", err)
			return ps
		}
		ps.BalanceAfter = after
	}
	return ps
}

// grouping preserves first-seen order, unlike a bare map.
type grouping struct {
	keys   []string
	groups map[string][]*game.WagerRecord
}

func groupRecords(records []*game.WagerRecord, keyOf func(*game.WagerRecord) string) grouping {
	g := grouping{groups: make(map[string][]*game.WagerRecord)}
	for _, rec := range records {
		k := keyOf(rec)
		if _, ok := g.groups[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.groups[k] = append(g.groups[k], rec)
	}
	return g
}
