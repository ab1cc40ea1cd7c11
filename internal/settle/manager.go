package settle

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pc28bot/settler/internal/config"
	"github.com/pc28bot/settler/internal/events"
	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/ingest"
	"github.com/pc28bot/settler/internal/kvstore"
	"github.com/pc28bot/settler/internal/ledger"
	"github.com/pc28bot/settler/internal/odds"
	"github.com/pc28bot/settler/internal/player"
)

// Manager owns the full pipeline: storage, odds table, ingestion,
// settlement and the NATS plumbing between them.
type Manager struct {
	cfg          *config.Config
	store        kvstore.KVStore
	table        *odds.Table
	emitter      *events.Emitter
	consumer     *events.Consumer
	ingester     *ingest.Service
	orchestrator *Orchestrator
}

func NewManager(cfg *config.Config) (*Manager, error) {
	store, err := kvstore.NewBadgerStore(cfg.Settler.Storage.Directory)
	if err != nil {
		return nil, fmt.Errorf("badger init: %w", err)
	}

	var oddsCfg *odds.Config
	if cfg.Settler.OddsFile != "" {
		oddsCfg, err = odds.Load(cfg.Settler.OddsFile)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("odds init: %w", err)
		}
	}
	table := odds.NewTable(oddsCfg)

	emitter, err := events.NewEmitter(cfg.Settler.NATS.URL, cfg.Settler.NATS.SubjectPrefix)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("emitter init: %w", err)
	}

	bets := ledger.NewBetStore(store, cfg.Settler.Ledger.IndexPeriods)
	summaries := ledger.NewSummaryStore(store)
	players := player.NewBadgerLedger(store)

	m := &Manager{
		cfg:     cfg,
		store:   store,
		table:   table,
		emitter: emitter,
		ingester: ingest.NewService(
			bets, summaries, table, players,
			ingest.Policy(cfg.Settler.Ingest.RepeatPolicy),
			cfg.Settler.Ingest.Channels,
		),
		orchestrator: NewOrchestrator(bets, summaries, table, players, emitter),
	}
	return m, nil
}

// Start subscribes to the chat and draw streams. Handlers run on the
// NATS delivery goroutines; the draw handler also advances the open
// period for messages that arrive without one.
func (m *Manager) Start() error {
	consumer, err := events.NewConsumer(m.cfg.Settler.NATS.URL, m.cfg.Settler.NATS.SubjectPrefix)
	if err != nil {
		return fmt.Errorf("consumer init: %w", err)
	}
	m.consumer = consumer

	err = consumer.Subscribe(
		func(msg events.ChatMessage) {
			if _, err := m.ingester.HandleChat(msg); err != nil && !isExpectedRejection(err) {
				slog.Error("Wager ingestion failed", "player", msg.SenderID, "error", err)
			}
		},
		func(draw events.DrawResult) {
			res := game.DrawResult{Period: draw.Period, D1: draw.D1, D2: draw.D2, D3: draw.D3}
			if err := m.orchestrator.OnDrawResult(res); err != nil {
				slog.Error("Settlement failed", "period", draw.Period, "error", err)
			}
			if next := nextPeriod(draw.Period); next != "" {
				m.ingester.SetOpenPeriod(next)
			}
		},
	)
	if err != nil {
		return err
	}
	slog.Info("Settler started",
		"subject_prefix", m.cfg.Settler.NATS.SubjectPrefix,
		"storage", m.cfg.Settler.Storage.Directory,
	)
	return nil
}

// Orchestrator exposes the settlement entrypoint for manual replay.
func (m *Manager) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// Stop shuts down subscriptions and resources.
func (m *Manager) Stop() {
	if m.consumer != nil {
		m.consumer.Close()
	}
	if m.emitter != nil {
		m.emitter.Close()
	}
	if m.store != nil {
		_ = m.store.Close()
		m.store = nil
	}
	slog.Info("Settler stopped")
}

// isExpectedRejection separates routine negative cases from real
// failures worth an error log.
func isExpectedRejection(err error) bool {
	return errors.Is(err, ingest.ErrNotWager) ||
		errors.Is(err, ingest.ErrChannelDisabled) ||
		errors.Is(err, ingest.ErrNoOpenPeriod) ||
		errors.Is(err, ingest.ErrPeriodSealed) ||
		errors.Is(err, ingest.ErrOppositeCombo) ||
		errors.Is(err, ingest.ErrBelowMinimum) ||
		errors.Is(err, ingest.ErrInsufficientBalance) ||
		errors.Is(err, ingest.ErrDuplicate)
}

// nextPeriod increments a numeric period id, preserving zero padding.
func nextPeriod(period string) string {
	n, err := strconv.ParseUint(period, 10, 64)
	if err != nil {
		return ""
	}
	next := strconv.FormatUint(n+1, 10)
	for len(next) < len(period) {
		next = "0" + next
	}
	return next
}
