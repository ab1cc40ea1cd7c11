package odds

import "github.com/shopspring/decimal"

// Built-in fallback odds, used when the config leaves a field unset.
// Operators are expected to override these from the odds file; the
// constants only keep an empty table payable.
const (
	defaultBigSmallOdds  = 1.9
	defaultOddEvenOdds   = 1.9
	defaultFourWayOdds   = 3.6
	defaultPairOdds      = 2.2
	defaultComboOdds     = 1.8
	defaultStraightOdds  = 6.5
	defaultHalfOdds      = 1.5
	defaultLeopardOdds   = 66
	defaultMixedOdds     = 1.3
	defaultDigitOdds     = 10
	defaultExtremeOdds   = 15
	defaultDTOdds        = 1.97
	defaultDTDrawOdds    = 9
	defaultArmyOdds1     = 2
	defaultArmyOdds2     = 3
	defaultArmyOdds3     = 9
	defaultEdgeOdds      = 2.8
	defaultAnyEdgeOdds   = 1.8
	defaultMiddleOdds    = 1.3
	defaultTailOdds      = 1.9
	defaultTailSpecial   = 1.4
	defaultTailCombo     = 3.8
	defaultTailComboSpec = 2.8
	defaultTailDigitOdds = 9.5
	defaultTailDigitSpec = 5
	killSentinel         = -1
)

func resolve(cfg *Config) *Snapshot {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Snapshot{
		BigSmall:     simple(cfg.BigSmall, defaultBigSmallOdds),
		OddEven:      simple(cfg.OddEven, defaultOddEvenOdds),
		FourWay:      simple(cfg.FourWay, defaultFourWayOdds),
		Pair:         formation(cfg.Pair, defaultPairOdds),
		Combination:  simple(cfg.Combination, defaultComboOdds),
		Straight:     formation(cfg.Straight, defaultStraightOdds),
		HalfStraight: simple(cfg.HalfStraight, defaultHalfOdds),
		Leopard:      formation(cfg.Leopard, defaultLeopardOdds),
		Mixed:        simple(cfg.Mixed, defaultMixedOdds),
		Digit:        digitRule(cfg.Digit),
		Extreme:      extremeRule(cfg.Extreme),
		DragonTiger:  dragonTigerRule(cfg.DragonTiger),
		ThreeArmy:    threeArmyRule(cfg.ThreeArmy),
		Edge:         edgeRule(cfg.Edge),
		Middle:       simple(cfg.Middle, defaultMiddleOdds),
		TailSingle:   tailRule(cfg.TailSingle, defaultTailOdds, defaultTailSpecial),
		TailCombo:    tailRule(cfg.TailCombo, defaultTailCombo, defaultTailComboSpec),
		TailDigit:    tailDigitRule(cfg.TailDigit),
	}
}

func resolveMult(p *float64, def float64) Multiplier {
	if p != nil {
		return mult(*p)
	}
	return mult(def)
}

func limits(min, max float64) Limits {
	return Limits{Min: decimal.NewFromFloat(min), Max: decimal.NewFromFloat(max)}
}

func simple(c KindConfig, def float64) SimpleRule {
	return SimpleRule{Odds: resolveMult(c.Odds, def), Limits: limits(c.Min, c.Max)}
}

func formation(c FormationConfig, def float64) FormationRule {
	return FormationRule{
		Odds:        resolveMult(c.Odds, def),
		Limits:      limits(c.Min, c.Max),
		ReturnStake: c.ReturnStake,
		KillAll:     c.KillAll,
	}
}

func digitRule(c DigitConfig) DigitRule {
	table := make(map[int]Multiplier, len(c.Table))
	for sum, v := range c.Table {
		if sum >= 0 && sum <= 27 {
			table[sum] = mult(v)
		}
	}
	return DigitRule{
		Table:   table,
		Default: resolveMult(c.Default, defaultDigitOdds),
		Limits:  limits(c.Min, c.Max),
	}
}

func extremeRule(c ExtremeConfig) ExtremeRule {
	return ExtremeRule{
		BigOdds:   resolveMult(c.BigOdds, defaultExtremeOdds),
		SmallOdds: resolveMult(c.SmallOdds, defaultExtremeOdds),
		HighMin:   intOr(c.HighMin, 22),
		HighMax:   intOr(c.HighMax, 27),
		LowMin:    intOr(c.LowMin, 0),
		LowMax:    intOr(c.LowMax, 5),
		Limits:    limits(c.Min, c.Max),
	}
}

func dragonTigerRule(c DragonTigerConfig) DragonTigerRule {
	drawReturn := true
	if c.DrawReturn != nil {
		drawReturn = *c.DrawReturn
	}
	r := DragonTigerRule{
		Mode:           c.Mode,
		DragonNumbers:  c.DragonNumbers,
		TigerNumbers:   c.TigerNumbers,
		LeopardNumbers: c.LeopardNumbers,
		Odds:           resolveMult(c.Odds, defaultDTOdds),
		OverAmount:     decimal.NewFromFloat(c.OverAmount),
		DrawOdds:       resolveMult(c.DrawOdds, defaultDTDrawOdds),
		DrawReturn:     drawReturn,
		LeopardKillAll: c.LeopardKillAll,
		Limits:         limits(c.Min, c.Max),
	}
	if c.OverOdds != nil {
		r.OverOdds = mult(*c.OverOdds)
	}
	if c.DrawOverOdds != nil {
		r.DrawOverOdds = mult(*c.DrawOverOdds)
	}
	return r
}

func threeArmyRule(c ThreeArmyConfig) ThreeArmyRule {
	return ThreeArmyRule{
		Odds1:  resolveMult(c.Odds1, defaultArmyOdds1),
		Odds2:  resolveMult(c.Odds2, defaultArmyOdds2),
		Odds3:  resolveMult(c.Odds3, defaultArmyOdds3),
		Limits: limits(c.Min, c.Max),
	}
}

func edgeRule(c EdgeConfig) EdgeRule {
	return EdgeRule{
		BigOdds:   resolveMult(c.BigOdds, defaultEdgeOdds),
		SmallOdds: resolveMult(c.SmallOdds, defaultEdgeOdds),
		AnyOdds:   resolveMult(c.AnyOdds, defaultAnyEdgeOdds),
		LowMax:    intOr(c.LowMax, 5),
		HighMin:   intOr(c.HighMin, 22),
		Limits:    limits(c.Min, c.Max),
	}
}

func tailTier(c TailTierConfig, def float64) TailTier {
	t := TailTier{
		Odds:       resolveMult(c.Odds, def),
		OverAmount: decimal.NewFromFloat(c.OverAmount),
	}
	if c.OverOdds != nil {
		t.OverOdds = mult(*c.OverOdds)
	}
	return t
}

func tailRule(c TailConfig, normalDef, specialDef float64) TailRule {
	return TailRule{
		ZeroNine: tailTier(c.ZeroNine, killSentinel),
		Special:  tailTier(c.Special, specialDef),
		Normal:   tailTier(c.Normal, normalDef),
		Limits:   limits(c.Min, c.Max),
	}
}

func tailDigitRule(c TailDigitConfig) TailDigitRule {
	table := make(map[int]Multiplier, len(c.Table))
	for tail, v := range c.Table {
		if tail >= 0 && tail <= 9 {
			table[tail] = mult(v)
		}
	}
	return TailDigitRule{
		TailRule: tailRule(c.TailConfig, defaultTailDigitOdds, defaultTailDigitSpec),
		Table:    table,
		Default:  resolveMult(c.Default, defaultTailDigitOdds),
	}
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
