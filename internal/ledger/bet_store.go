// Package ledger persists accepted wagers and settlement summaries.
// Wager records are partitioned by (day, channel, period) so queries
// for one period never touch unrelated data, and the on-disk value is
// a fixed-order delimited line kept compatible with audit tooling.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/kvstore"
)

const (
	betPrefix           = "bets"
	DefaultIndexPeriods = 16
)

// BetStore is the append-only wager ledger. Appends go through a small
// in-memory sequence index covering the most recent periods; evicted
// periods stay fully durable and readable, the next append just pays
// one recovery scan.
type BetStore struct {
	store    kvstore.KVStore
	maxIndex int

	mu    sync.Mutex
	seqs  map[string]int // partition key -> next sequence
	order []string       // partition keys, oldest first
}

func NewBetStore(store kvstore.KVStore, indexPeriods int) *BetStore {
	if indexPeriods <= 0 {
		indexPeriods = DefaultIndexPeriods
	}
	return &BetStore{
		store:    store,
		maxIndex: indexPeriods,
		seqs:     make(map[string]int),
	}
}

func partitionKey(day, channelID, period string) string {
	return fmt.Sprintf("%s/%s/%s/%s", betPrefix, day, channelID, period)
}

// Append writes one accepted wager record. Safe for concurrent callers.
func (s *BetStore) Append(rec *game.WagerRecord) error {
	if rec.Period == "" || rec.ChannelID == "" {
		return fmt.Errorf("append wager: period and channel are required")
	}
	day := rec.Time.Format(DayFormat)
	part := partitionKey(day, rec.ChannelID, rec.Period)

	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.nextSeq(part)
	if err != nil {
		return fmt.Errorf("append wager: %w", err)
	}
	key := fmt.Sprintf("%s/%09d", part, seq)
	if err := s.store.Set(key, encodeRecord(rec)); err != nil {
		return fmt.Errorf("append wager: %w", err)
	}
	s.seqs[part] = seq + 1
	return nil
}

// nextSeq serves from the index, recovering the counter with a prefix
// scan when the partition was evicted or never seen. Caller holds mu.
func (s *BetStore) nextSeq(part string) (int, error) {
	if seq, ok := s.seqs[part]; ok {
		return seq, nil
	}
	entries, err := s.store.Scan(part + "/")
	if err != nil {
		return 0, err
	}
	s.admit(part)
	return len(entries), nil
}

// admit tracks a partition in the index, evicting the oldest entry
// past the cap. Eviction only drops the counter cache, never data.
func (s *BetStore) admit(part string) {
	if _, ok := s.seqs[part]; ok {
		return
	}
	if len(s.order) >= s.maxIndex {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seqs, oldest)
	}
	s.order = append(s.order, part)
	s.seqs[part] = 0
}

// Query returns the records for one period in append order. An empty
// channelID aggregates every channel for that day and period, used by
// cross-channel reporting; settlement always names the channel.
func (s *BetStore) Query(day, channelID, period string) ([]*game.WagerRecord, error) {
	var prefix string
	if channelID != "" {
		prefix = partitionKey(day, channelID, period) + "/"
	} else {
		prefix = fmt.Sprintf("%s/%s/", betPrefix, day)
	}
	entries, err := s.store.Scan(prefix)
	if err != nil {
		return nil, fmt.Errorf("query wagers: %w", err)
	}

	records := make([]*game.WagerRecord, 0, len(entries))
	for _, e := range entries {
		if channelID == "" && !keyMatchesPeriod(e.Key, period) {
			continue
		}
		rec, err := decodeRecord(day, e.Value)
		if err != nil {
			slog.Warn("Skipping undecodable ledger record", "key", e.Key, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// keyMatchesPeriod checks the period segment of a full ledger key
// (bets/day/channel/period/seq).
func keyMatchesPeriod(key, period string) bool {
	parts := strings.Split(key, "/")
	return len(parts) == 5 && parts[3] == period
}

// Clear removes every record for one (day, channel, period). Only the
// settlement orchestrator calls this, after the summary is persisted.
func (s *BetStore) Clear(day, channelID, period string) error {
	part := partitionKey(day, channelID, period)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeletePrefix(part + "/"); err != nil {
		return fmt.Errorf("clear wagers: %w", err)
	}
	if _, ok := s.seqs[part]; ok {
		delete(s.seqs, part)
		for i, p := range s.order {
			if p == part {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}
