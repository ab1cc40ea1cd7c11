package odds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk odds and limits table. Every odds field is a
// pointer so a deliberate zero ("win returns stake") can be told apart
// from an absent value (falls back to the kind's default).
type Config struct {
	BigSmall     KindConfig        `yaml:"bigsmall"`
	OddEven      KindConfig        `yaml:"oddeven"`
	FourWay      KindConfig        `yaml:"fourway"`
	Pair         FormationConfig   `yaml:"pair"`
	Combination  KindConfig        `yaml:"combination"`
	Straight     FormationConfig   `yaml:"straight"`
	HalfStraight KindConfig        `yaml:"halfstraight"`
	Leopard      FormationConfig   `yaml:"leopard"`
	Mixed        KindConfig        `yaml:"mixed"`
	Digit        DigitConfig       `yaml:"digit"`
	Extreme      ExtremeConfig     `yaml:"extreme"`
	DragonTiger  DragonTigerConfig `yaml:"dragon_tiger"`
	ThreeArmy    ThreeArmyConfig   `yaml:"three_army"`
	Edge         EdgeConfig        `yaml:"edge"`
	Middle       KindConfig        `yaml:"middle"`
	TailSingle   TailConfig        `yaml:"tail_single"`
	TailCombo    TailConfig        `yaml:"tail_combination"`
	TailDigit    TailDigitConfig   `yaml:"tail_digit"`
}

type KindConfig struct {
	Odds *float64 `yaml:"odds"`
	Min  float64  `yaml:"min"`
	Max  float64  `yaml:"max"`
}

type FormationConfig struct {
	KindConfig  `yaml:",inline"`
	ReturnStake bool `yaml:"return_stake"`
	KillAll     bool `yaml:"kill_all"`
}

type DigitConfig struct {
	Default *float64        `yaml:"default"`
	Table   map[int]float64 `yaml:"table"`
	Min     float64         `yaml:"min"`
	Max     float64         `yaml:"max"`
}

type ExtremeConfig struct {
	BigOdds   *float64 `yaml:"big_odds"`
	SmallOdds *float64 `yaml:"small_odds"`
	HighMin   *int     `yaml:"high_min"`
	HighMax   *int     `yaml:"high_max"`
	LowMin    *int     `yaml:"low_min"`
	LowMax    *int     `yaml:"low_max"`
	Min       float64  `yaml:"min"`
	Max       float64  `yaml:"max"`
}

type DragonTigerConfig struct {
	Mode           string   `yaml:"mode"` // compare | list
	DragonNumbers  []int    `yaml:"dragon_numbers"`
	TigerNumbers   []int    `yaml:"tiger_numbers"`
	LeopardNumbers []int    `yaml:"leopard_numbers"`
	Odds           *float64 `yaml:"odds"`
	OverAmount     float64  `yaml:"over_amount"`
	OverOdds       *float64 `yaml:"over_odds"`
	DrawOdds       *float64 `yaml:"draw_odds"`
	DrawOverOdds   *float64 `yaml:"draw_over_odds"`
	DrawReturn     *bool    `yaml:"draw_return"`
	LeopardKillAll bool     `yaml:"leopard_kill_all"`
	Min            float64  `yaml:"min"`
	Max            float64  `yaml:"max"`
}

type ThreeArmyConfig struct {
	Odds1 *float64 `yaml:"odds1"` // one digit matches
	Odds2 *float64 `yaml:"odds2"` // two digits match
	Odds3 *float64 `yaml:"odds3"` // all three match
	Min   float64  `yaml:"min"`
	Max   float64  `yaml:"max"`
}

type EdgeConfig struct {
	BigOdds   *float64 `yaml:"big_odds"`
	SmallOdds *float64 `yaml:"small_odds"`
	AnyOdds   *float64 `yaml:"any_odds"`
	LowMax    *int     `yaml:"low_max"`
	HighMin   *int     `yaml:"high_min"`
	Min       float64  `yaml:"min"`
	Max       float64  `yaml:"max"`
}

// TailTierConfig is one odds tier of the tail family. A negative odds
// value is the kill sentinel: every tail wager hitting the tier loses.
type TailTierConfig struct {
	Odds       *float64 `yaml:"odds"`
	OverAmount float64  `yaml:"over_amount"`
	OverOdds   *float64 `yaml:"over_odds"`
}

type TailConfig struct {
	ZeroNine TailTierConfig `yaml:"zero_nine"`
	Special  TailTierConfig `yaml:"special"` // sum is 13 or 14
	Normal   TailTierConfig `yaml:"normal"`
	Min      float64        `yaml:"min"`
	Max      float64        `yaml:"max"`
}

type TailDigitConfig struct {
	TailConfig `yaml:",inline"`
	Default    *float64        `yaml:"default"`
	Table      map[int]float64 `yaml:"table"`
}

// Load reads an odds table from a YAML file. Missing fields keep their
// defaults when the table is resolved.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read odds config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse odds config: %w", err)
	}
	return &cfg, nil
}
