package odds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pc28bot/settler/internal/game"
)

func f64(v float64) *float64 { return &v }

func TestLoadOddsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odds.yaml")
	content := `
bigsmall:
  odds: 1.95
  min: 10
  max: 50000
pair:
  odds: 2.1
  return_stake: true
leopard:
  odds: 60
  kill_all: true
digit:
  default: 10
  table:
    19: 9.0
    13: 36.9
dragon_tiger:
  mode: list
  dragon_numbers: [14, 15, 16]
  tiger_numbers: [11, 12, 13]
  leopard_numbers: [0, 27]
  odds: 1.97
  over_amount: 5000
  over_odds: 1.9
  draw_odds: 9
  draw_return: false
tail_single:
  zero_nine:
    odds: -1
  normal:
    odds: 1.9
    over_amount: 5000
    over_odds: 1.7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	s := NewTable(cfg).Snapshot()
	assert.True(t, s.BigSmall.Odds.Value.Equal(decimal.NewFromFloat(1.95)))
	assert.True(t, s.BigSmall.Limits.Min.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.Pair.ReturnStake)
	assert.True(t, s.Leopard.KillAll)
	assert.True(t, s.Digit.OddsFor(19).Value.Equal(decimal.NewFromFloat(9.0)))
	assert.Equal(t, "list", s.DragonTiger.Mode)
	assert.False(t, s.DragonTiger.DrawReturn)
	assert.True(t, s.TailSingle.ZeroNine.Odds.Kill())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/odds.yaml")
	assert.Error(t, err)
}

func TestDefaultsApply(t *testing.T) {
	s := NewTable(nil).Snapshot()

	assert.True(t, s.BigSmall.Odds.Set)
	assert.True(t, s.Digit.Default.Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 22, s.Extreme.HighMin)
	assert.Equal(t, 5, s.Extreme.LowMax)
	assert.True(t, s.DragonTiger.DrawReturn)
	// Tail zero/nine defaults to the kill sentinel.
	assert.True(t, s.TailSingle.ZeroNine.Odds.Kill())
	assert.True(t, s.TailCombo.ZeroNine.Odds.Kill())
}

func TestZeroOddsIsDeliberate(t *testing.T) {
	s := NewTable(&Config{BigSmall: KindConfig{Odds: f64(0)}}).Snapshot()
	assert.True(t, s.BigSmall.Odds.Set)
	assert.True(t, s.BigSmall.Odds.Value.IsZero())
	assert.False(t, s.BigSmall.Odds.Kill())
}

func TestLimitsClamp(t *testing.T) {
	l := Limits{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(1000)}
	assert.True(t, l.Clamp(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(1000)))
	assert.True(t, l.Clamp(decimal.NewFromInt(500)).Equal(decimal.NewFromInt(500)))
	assert.True(t, l.BelowFloor(decimal.NewFromInt(5)))
	assert.False(t, l.BelowFloor(decimal.NewFromInt(10)))

	unlimited := Limits{}
	assert.True(t, unlimited.Clamp(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(5000)))
	assert.False(t, unlimited.BelowFloor(decimal.NewFromInt(1)))
}

func TestLimitsForCoversEveryKind(t *testing.T) {
	s := NewTable(&Config{
		BigSmall: KindConfig{Min: 1, Max: 2},
		Digit:    DigitConfig{Min: 3, Max: 4},
	}).Snapshot()

	assert.True(t, s.LimitsFor(game.KindBigSmall).Max.Equal(decimal.NewFromInt(2)))
	assert.True(t, s.LimitsFor(game.KindDigit).Min.Equal(decimal.NewFromInt(3)))
	assert.True(t, s.LimitsFor(game.KindUnknown).Max.IsZero())
}

func TestReloadSwapsAtomically(t *testing.T) {
	table := NewTable(&Config{BigSmall: KindConfig{Odds: f64(1.9)}})
	old := table.Snapshot()

	table.Reload(&Config{BigSmall: KindConfig{Odds: f64(1.5)}})

	assert.True(t, old.BigSmall.Odds.Value.Equal(decimal.NewFromFloat(1.9)))
	assert.True(t, table.Snapshot().BigSmall.Odds.Value.Equal(decimal.NewFromFloat(1.5)))
}

func TestDragonTigerTiers(t *testing.T) {
	r := NewTable(&Config{DragonTiger: DragonTigerConfig{
		Odds:       f64(1.97),
		OverAmount: 5000,
		OverOdds:   f64(1.9),
	}}).Snapshot().DragonTiger

	assert.True(t, r.OddsForStake(decimal.NewFromInt(100)).Value.Equal(decimal.NewFromFloat(1.97)))
	assert.True(t, r.OddsForStake(decimal.NewFromInt(5000)).Value.Equal(decimal.NewFromFloat(1.9)))
}
