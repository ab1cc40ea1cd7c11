package odds

import (
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
)

// Multiplier is a resolved payout odds value. Set distinguishes a real
// configuration (including a deliberate zero, which returns the stake
// on a win) from an unknown kind/code combination, which the settlement
// engine treats as an automatic loss.
type Multiplier struct {
	Value decimal.Decimal
	Set   bool
}

func mult(v float64) Multiplier {
	return Multiplier{Value: decimal.NewFromFloat(v), Set: true}
}

// Kill reports the sentinel: a negative configured odds value means
// every wager hitting this rule loses outright.
func (m Multiplier) Kill() bool {
	return m.Set && m.Value.IsNegative()
}

// Limits is the per-kind stake floor and ceiling. A zero Max means no
// ceiling, a zero Min means no floor.
type Limits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Clamp reduces the amount to the ceiling. Amounts below the floor are
// rejected by the caller, not clamped up.
func (l Limits) Clamp(amount decimal.Decimal) decimal.Decimal {
	if l.Max.IsPositive() && amount.GreaterThan(l.Max) {
		return l.Max
	}
	return amount
}

func (l Limits) BelowFloor(amount decimal.Decimal) bool {
	return l.Min.IsPositive() && amount.LessThan(l.Min)
}

type SimpleRule struct {
	Odds   Multiplier
	Limits Limits
}

type FormationRule struct {
	Odds        Multiplier
	Limits      Limits
	ReturnStake bool
	KillAll     bool
}

type DigitRule struct {
	Table   map[int]Multiplier
	Default Multiplier
	Limits  Limits
}

// OddsFor returns the configured odds for one exact sum, falling back
// to the table default when the entry is unset.
func (d DigitRule) OddsFor(sum int) Multiplier {
	if m, ok := d.Table[sum]; ok {
		return m
	}
	return d.Default
}

type ExtremeRule struct {
	BigOdds   Multiplier
	SmallOdds Multiplier
	HighMin   int
	HighMax   int
	LowMin    int
	LowMax    int
	Limits    Limits
}

type DragonTigerRule struct {
	Mode           string
	DragonNumbers  []int
	TigerNumbers   []int
	LeopardNumbers []int
	Odds           Multiplier
	OverAmount     decimal.Decimal
	OverOdds       Multiplier
	DrawOdds       Multiplier
	DrawOverOdds   Multiplier
	DrawReturn     bool
	LeopardKillAll bool
	Limits         Limits
}

// Outcome classifies the draw under the configured mode. List mode
// assigns every sum to dragon/tiger/leopard via the number lists and
// treats unlisted sums as a draw; compare mode pits the first digit
// against the third.
func (r DragonTigerRule) Outcome(res game.DrawResult) game.DTOutcome {
	if r.Mode != "list" {
		return res.CompareOutcome()
	}
	sum := res.Sum()
	switch {
	case containsInt(r.LeopardNumbers, sum):
		return game.DTLeopard
	case containsInt(r.DragonNumbers, sum):
		return game.DTDragon
	case containsInt(r.TigerNumbers, sum):
		return game.DTTiger
	default:
		return game.DTDraw
	}
}

// OddsForStake applies the two-tier rule: stakes at or above the
// threshold use the second multiplier.
func (r DragonTigerRule) OddsForStake(amount decimal.Decimal) Multiplier {
	if r.OverAmount.IsPositive() && amount.GreaterThanOrEqual(r.OverAmount) && r.OverOdds.Set {
		return r.OverOdds
	}
	return r.Odds
}

func (r DragonTigerRule) DrawOddsForStake(amount decimal.Decimal) Multiplier {
	if r.OverAmount.IsPositive() && amount.GreaterThanOrEqual(r.OverAmount) && r.DrawOverOdds.Set {
		return r.DrawOverOdds
	}
	return r.DrawOdds
}

type ThreeArmyRule struct {
	Odds1  Multiplier
	Odds2  Multiplier
	Odds3  Multiplier
	Limits Limits
}

// OddsForMatches selects the tier by how many digits matched. Zero
// matches is an unconditional loss and returns an unset multiplier.
func (r ThreeArmyRule) OddsForMatches(n int) Multiplier {
	switch n {
	case 1:
		return r.Odds1
	case 2:
		return r.Odds2
	case 3:
		return r.Odds3
	default:
		return Multiplier{}
	}
}

type EdgeRule struct {
	BigOdds   Multiplier
	SmallOdds Multiplier
	AnyOdds   Multiplier
	LowMax    int
	HighMin   int
	Limits    Limits
}

type TailTier struct {
	Odds       Multiplier
	OverAmount decimal.Decimal
	OverOdds   Multiplier
}

func (t TailTier) forStake(amount decimal.Decimal) Multiplier {
	if t.OverAmount.IsPositive() && amount.GreaterThan(t.OverAmount) && t.OverOdds.Set {
		return t.OverOdds
	}
	return t.Odds
}

type TailRule struct {
	ZeroNine TailTier
	Special  TailTier
	Normal   TailTier
	Limits   Limits
}

// TierFor selects the odds tier for one draw and stake: tail digit 0
// or 9 first, then sum 13/14, then the normal tier. The second return
// reports the kill sentinel for the selected tier.
func (r TailRule) TierFor(res game.DrawResult, amount decimal.Decimal) (Multiplier, bool) {
	var tier TailTier
	switch {
	case res.Tail() == 0 || res.Tail() == 9:
		tier = r.ZeroNine
	case res.Sum() == 13 || res.Sum() == 14:
		tier = r.Special
	default:
		tier = r.Normal
	}
	m := tier.forStake(amount)
	return m, m.Kill()
}

type TailDigitRule struct {
	TailRule
	Table   map[int]Multiplier
	Default Multiplier
}

func (r TailDigitRule) OddsFor(tail int) Multiplier {
	if m, ok := r.Table[tail]; ok {
		return m
	}
	return r.Default
}

// Snapshot is one immutable, fully resolved odds table. The settlement
// engine works against a single snapshot for a whole period so a
// concurrent reload can never be observed half-applied.
type Snapshot struct {
	BigSmall     SimpleRule
	OddEven      SimpleRule
	FourWay      SimpleRule
	Pair         FormationRule
	Combination  SimpleRule
	Straight     FormationRule
	HalfStraight SimpleRule
	Leopard      FormationRule
	Mixed        SimpleRule
	Digit        DigitRule
	Extreme      ExtremeRule
	DragonTiger  DragonTigerRule
	ThreeArmy    ThreeArmyRule
	Edge         EdgeRule
	Middle       SimpleRule
	TailSingle   TailRule
	TailCombo    TailRule
	TailDigit    TailDigitRule
}

// LimitsFor returns the stake floor and ceiling for a kind. Unknown
// kinds have no limits.
func (s *Snapshot) LimitsFor(kind game.WagerKind) Limits {
	switch kind {
	case game.KindBigSmall:
		return s.BigSmall.Limits
	case game.KindOddEven:
		return s.OddEven.Limits
	case game.KindFourWay:
		return s.FourWay.Limits
	case game.KindPair:
		return s.Pair.Limits
	case game.KindCombination:
		return s.Combination.Limits
	case game.KindStraight:
		return s.Straight.Limits
	case game.KindHalfStraight:
		return s.HalfStraight.Limits
	case game.KindLeopard:
		return s.Leopard.Limits
	case game.KindMixed:
		return s.Mixed.Limits
	case game.KindDigit:
		return s.Digit.Limits
	case game.KindExtreme:
		return s.Extreme.Limits
	case game.KindDragonTiger, game.KindSum:
		return s.DragonTiger.Limits
	case game.KindThreeArmy:
		return s.ThreeArmy.Limits
	case game.KindEdge:
		return s.Edge.Limits
	case game.KindMiddle:
		return s.Middle.Limits
	case game.KindTailSingle:
		return s.TailSingle.Limits
	case game.KindTailCombination:
		return s.TailCombo.Limits
	case game.KindTailDigit:
		return s.TailDigit.Limits
	default:
		return Limits{}
	}
}

// Table holds the current snapshot and swaps it atomically on reload.
type Table struct {
	current atomic.Pointer[Snapshot]
}

// NewTable resolves a config into a table. A nil config yields the
// built-in defaults.
func NewTable(cfg *Config) *Table {
	t := &Table{}
	t.Reload(cfg)
	return t
}

// Reload resolves and publishes a new snapshot. In-flight settlements
// keep the snapshot they started with.
func (t *Table) Reload(cfg *Config) {
	t.current.Store(resolve(cfg))
}

func (t *Table) Snapshot() *Snapshot {
	return t.current.Load()
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
