package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// WagerItem is one parsed stake on one category.
type WagerItem struct {
	Kind   WagerKind
	Code   string
	Amount decimal.Decimal
}

// Label renders the canonical Chinese display form of the item's
// category, without the amount.
func (w WagerItem) Label() string {
	switch w.Kind {
	case KindBigSmall:
		if w.Code == CodeBig {
			return "大"
		}
		return "小"
	case KindOddEven:
		if w.Code == CodeOdd {
			return "单"
		}
		return "双"
	case KindFourWay:
		return fourWayLabels[w.Code]
	case KindPair:
		return "对子"
	case KindCombination:
		return "组合"
	case KindStraight:
		return "顺子"
	case KindHalfStraight:
		return "半顺"
	case KindLeopard:
		return "豹子"
	case KindMixed:
		return "杂"
	case KindDigit:
		return w.Code + "/"
	case KindExtreme:
		if w.Code == CodeExtremeBig {
			return "极大"
		}
		return "极小"
	case KindDragonTiger:
		if w.Code == CodeDragon {
			return "龙"
		}
		return "虎"
	case KindSum:
		return "和"
	case KindThreeArmy:
		return "三军" + w.Code + "/"
	case KindEdge:
		switch w.Code {
		case CodeBigEdge:
			return "大边"
		case CodeSmallEdge:
			return "小边"
		default:
			return "边"
		}
	case KindMiddle:
		return "中"
	case KindTailSingle:
		return tailSingleLabels[w.Code]
	case KindTailCombination:
		return "尾" + fourWayLabels[w.Code]
	case KindTailDigit:
		return "尾" + w.Code + "/"
	default:
		return w.Code
	}
}

// Normalized renders label plus amount, e.g. "小单2000" or "13/100".
func (w WagerItem) Normalized() string {
	return w.Label() + w.Amount.String()
}

var fourWayLabels = map[string]string{
	CodeBigOdd:    "大单",
	CodeBigEven:   "大双",
	CodeSmallOdd:  "小单",
	CodeSmallEven: "小双",
}

var tailSingleLabels = map[string]string{
	CodeTailBig:   "尾大",
	CodeTailSmall: "尾小",
	CodeTailOdd:   "尾单",
	CodeTailEven:  "尾双",
}

// WagerRecord is one accepted chat message's worth of wagers. Immutable
// once appended to the ledger; the settlement orchestrator is the only
// remover. Items may be empty on records read back from storage — the
// orchestrator re-parses RawText at settlement time.
type WagerRecord struct {
	Period        string
	ChannelID     string
	PlayerID      string
	PlayerName    string
	RawText       string
	Normalized    string
	Items         []WagerItem
	TotalAmount   decimal.Decimal
	BalanceBefore decimal.Decimal
	Time          time.Time
}
