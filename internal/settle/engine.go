// Package settle computes wager outcomes and drives period settlement.
package settle

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/odds"
)

// Engine settles single wager items against the current odds table.
type Engine struct {
	table *odds.Table
}

func NewEngine(table *odds.Table) *Engine {
	return &Engine{table: table}
}

// Settle returns the signed profit for one item: stake*(odds-1) on a
// win, -stake on a loss, 0 when the stake is returned.
func (e *Engine) Settle(item game.WagerItem, res game.DrawResult) decimal.Decimal {
	return SettleWith(e.table.Snapshot(), item, res)
}

// SettleWith settles against an explicit snapshot. The orchestrator
// takes one snapshot per period so every item in the period sees the
// same table.
//
// Every wager kind has its own case; there is no catch-all win path. A
// kind or code the table knows nothing about settles as a loss, never
// as an error, so one misconfigured category cannot halt a period.
func SettleWith(s *odds.Snapshot, item game.WagerItem, res game.DrawResult) decimal.Decimal {
	amount := item.Amount
	switch item.Kind {
	case game.KindBigSmall:
		switch item.Code {
		case game.CodeBig:
			return outcome(res.IsBig(), amount, s.BigSmall.Odds)
		case game.CodeSmall:
			return outcome(!res.IsBig(), amount, s.BigSmall.Odds)
		}
		return lose(amount)

	case game.KindOddEven:
		switch item.Code {
		case game.CodeOdd:
			return outcome(res.IsOdd(), amount, s.OddEven.Odds)
		case game.CodeEven:
			return outcome(!res.IsOdd(), amount, s.OddEven.Odds)
		}
		return lose(amount)

	case game.KindFourWay:
		return outcome(item.Code == res.FourWayCode(), amount, s.FourWay.Odds)

	case game.KindPair:
		// A leopard contains a pair, so pair wagers hit on both; the
		// leopard kill-all override and the return-stake rule both
		// take precedence over the normal payout.
		if res.Formation() == game.FormationLeopard && s.Leopard.KillAll {
			return lose(amount)
		}
		hit := res.Formation() == game.FormationPair || res.Formation() == game.FormationLeopard
		return formationOutcome(hit, amount, s.Pair)

	case game.KindCombination:
		f := res.Formation()
		hit := f == game.FormationPair || f == game.FormationStraight || f == game.FormationLeopard
		return outcome(hit, amount, s.Combination.Odds)

	case game.KindStraight:
		return formationOutcome(res.Formation() == game.FormationStraight, amount, s.Straight)

	case game.KindHalfStraight:
		return outcome(res.Formation() == game.FormationHalfStraight, amount, s.HalfStraight.Odds)

	case game.KindLeopard:
		if s.Leopard.KillAll {
			return lose(amount)
		}
		return formationOutcome(res.Formation() == game.FormationLeopard, amount, s.Leopard)

	case game.KindMixed:
		return outcome(res.Formation() == game.FormationMixed, amount, s.Mixed.Odds)

	case game.KindDigit:
		target, err := strconv.Atoi(item.Code)
		if err != nil || target < 0 || target > 27 {
			return lose(amount)
		}
		return outcome(res.Sum() == target, amount, s.Digit.OddsFor(res.Sum()))

	case game.KindExtreme:
		sum := res.Sum()
		switch item.Code {
		case game.CodeExtremeBig:
			return outcome(sum >= s.Extreme.HighMin && sum <= s.Extreme.HighMax, amount, s.Extreme.BigOdds)
		case game.CodeExtremeSmall:
			return outcome(sum >= s.Extreme.LowMin && sum <= s.Extreme.LowMax, amount, s.Extreme.SmallOdds)
		}
		return lose(amount)

	case game.KindDragonTiger:
		return settleDragonTiger(s.DragonTiger, item, res)

	case game.KindSum:
		return settleDraw(s.DragonTiger, item, res)

	case game.KindThreeArmy:
		target, err := strconv.Atoi(item.Code)
		if err != nil || target < 0 || target > 9 {
			return lose(amount)
		}
		matches := 0
		for _, d := range []int{res.D1, res.D2, res.D3} {
			if d == target {
				matches++
			}
		}
		if matches == 0 {
			return lose(amount)
		}
		return win(amount, s.ThreeArmy.OddsForMatches(matches))

	case game.KindEdge:
		sum := res.Sum()
		low := sum <= s.Edge.LowMax
		high := sum >= s.Edge.HighMin
		switch item.Code {
		case game.CodeBigEdge:
			return outcome(high, amount, s.Edge.BigOdds)
		case game.CodeSmallEdge:
			return outcome(low, amount, s.Edge.SmallOdds)
		case game.CodeAnyEdge:
			return outcome(low || high, amount, s.Edge.AnyOdds)
		}
		return lose(amount)

	case game.KindMiddle:
		sum := res.Sum()
		return outcome(sum > s.Edge.LowMax && sum < s.Edge.HighMin, amount, s.Middle.Odds)

	case game.KindTailSingle:
		m, kill := s.TailSingle.TierFor(res, amount)
		if kill {
			return lose(amount)
		}
		tail := res.Tail()
		switch item.Code {
		case game.CodeTailBig:
			return outcome(tail >= 5, amount, m)
		case game.CodeTailSmall:
			return outcome(tail <= 4, amount, m)
		case game.CodeTailOdd:
			return outcome(tail%2 == 1, amount, m)
		case game.CodeTailEven:
			return outcome(tail%2 == 0, amount, m)
		}
		return lose(amount)

	case game.KindTailCombination:
		m, kill := s.TailCombo.TierFor(res, amount)
		if kill {
			return lose(amount)
		}
		tail := res.Tail()
		big, odd := tail >= 5, tail%2 == 1
		switch item.Code {
		case game.CodeBigOdd:
			return outcome(big && odd, amount, m)
		case game.CodeBigEven:
			return outcome(big && !odd, amount, m)
		case game.CodeSmallOdd:
			return outcome(!big && odd, amount, m)
		case game.CodeSmallEven:
			return outcome(!big && !odd, amount, m)
		}
		return lose(amount)

	case game.KindTailDigit:
		m, kill := s.TailDigit.TierFor(res, amount)
		if kill {
			return lose(amount)
		}
		target, err := strconv.Atoi(item.Code)
		if err != nil || target < 0 || target > 9 {
			return lose(amount)
		}
		// An explicit per-digit entry overrides the tier odds.
		if override, ok := s.TailDigit.Table[target]; ok {
			m = override
		}
		return outcome(res.Tail() == target, amount, m)

	case game.KindUnknown:
		return lose(amount)
	}
	return lose(amount)
}

func settleDragonTiger(r odds.DragonTigerRule, item game.WagerItem, res game.DrawResult) decimal.Decimal {
	amount := item.Amount
	out := r.Outcome(res)

	if out == game.DTLeopard {
		if r.LeopardKillAll {
			return lose(amount)
		}
		// Without the kill rule a leopard settles like a draw for
		// dragon/tiger stakes.
		out = game.DTDraw
	}
	if out == game.DTDraw {
		if r.DrawReturn {
			return decimal.Zero
		}
		return lose(amount)
	}

	wantDragon := item.Code == game.CodeDragon
	wantTiger := item.Code == game.CodeTiger
	if !wantDragon && !wantTiger {
		return lose(amount)
	}
	hit := (wantDragon && out == game.DTDragon) || (wantTiger && out == game.DTTiger)
	return outcome(hit, amount, r.OddsForStake(amount))
}

func settleDraw(r odds.DragonTigerRule, item game.WagerItem, res game.DrawResult) decimal.Decimal {
	amount := item.Amount
	out := r.Outcome(res)
	if out == game.DTLeopard {
		if r.LeopardKillAll {
			return lose(amount)
		}
		out = game.DTDraw
	}
	return outcome(out == game.DTDraw, amount, r.DrawOddsForStake(amount))
}

func formationOutcome(hit bool, amount decimal.Decimal, rule odds.FormationRule) decimal.Decimal {
	if !hit {
		return lose(amount)
	}
	if rule.ReturnStake {
		return decimal.Zero
	}
	return win(amount, rule.Odds)
}

func outcome(hit bool, amount decimal.Decimal, m odds.Multiplier) decimal.Decimal {
	if !hit {
		return lose(amount)
	}
	return win(amount, m)
}

// win pays stake*(odds-1). A deliberately configured zero multiplier
// returns the stake; an unset or kill-sentinel multiplier loses it.
func win(amount decimal.Decimal, m odds.Multiplier) decimal.Decimal {
	if !m.Set || m.Kill() {
		return lose(amount)
	}
	if m.Value.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(m.Value.Sub(decimal.NewFromInt(1)))
}

func lose(amount decimal.Decimal) decimal.Decimal {
	return amount.Neg()
}
