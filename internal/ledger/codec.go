package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
)

// One ledger value is a single tab-delimited line. The field order is
// fixed and load-bearing: external audit tooling reads these lines
// positionally.
const (
	fieldTime = iota
	fieldPeriod
	fieldChannel
	fieldPlayer
	fieldName
	fieldBalance
	fieldTotal
	fieldNormalized
	fieldRaw
	fieldCount
)

const (
	DayFormat  = "2006-01-02"
	timeFormat = "15:04:05"
	delimiter  = "\t"
)

// sanitize keeps the delimiter out of field values.
func sanitize(s string) string {
	return strings.ReplaceAll(s, delimiter, " ")
}

func encodeRecord(rec *game.WagerRecord) []byte {
	fields := make([]string, fieldCount)
	fields[fieldTime] = rec.Time.Format(timeFormat)
	fields[fieldPeriod] = sanitize(rec.Period)
	fields[fieldChannel] = sanitize(rec.ChannelID)
	fields[fieldPlayer] = sanitize(rec.PlayerID)
	fields[fieldName] = sanitize(rec.PlayerName)
	fields[fieldBalance] = rec.BalanceBefore.String()
	fields[fieldTotal] = rec.TotalAmount.String()
	fields[fieldNormalized] = sanitize(rec.Normalized)
	fields[fieldRaw] = sanitize(rec.RawText)
	return []byte(strings.Join(fields, delimiter))
}

// decodeRecord rebuilds a record from one stored line. Items are left
// empty: settlement re-parses RawText instead of trusting a cache.
func decodeRecord(day string, value []byte) (*game.WagerRecord, error) {
	fields := strings.Split(string(value), delimiter)
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("ledger record has %d fields, want %d", len(fields), fieldCount)
	}
	ts, err := time.ParseInLocation(DayFormat+" "+timeFormat, day+" "+fields[fieldTime], time.Local)
	if err != nil {
		return nil, fmt.Errorf("ledger record time: %w", err)
	}
	balance, err := decimal.NewFromString(fields[fieldBalance])
	if err != nil {
		return nil, fmt.Errorf("ledger record balance: %w", err)
	}
	total, err := decimal.NewFromString(fields[fieldTotal])
	if err != nil {
		return nil, fmt.Errorf("ledger record total: %w", err)
	}
	return &game.WagerRecord{
		Period:        fields[fieldPeriod],
		ChannelID:     fields[fieldChannel],
		PlayerID:      fields[fieldPlayer],
		PlayerName:    fields[fieldName],
		BalanceBefore: balance,
		TotalAmount:   total,
		Normalized:    fields[fieldNormalized],
		RawText:       fields[fieldRaw],
		Time:          ts,
	}, nil
}
