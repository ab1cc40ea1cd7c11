package game

import "fmt"

// Formation classifies the three draw digits.
type Formation int

const (
	FormationMixed Formation = iota
	FormationHalfStraight
	FormationStraight
	FormationPair
	FormationLeopard
)

func (f Formation) String() string {
	switch f {
	case FormationLeopard:
		return "豹子"
	case FormationPair:
		return "对子"
	case FormationStraight:
		return "顺子"
	case FormationHalfStraight:
		return "半顺"
	default:
		return "杂"
	}
}

// DTOutcome is the dragon/tiger classification of a draw.
type DTOutcome int

const (
	DTDraw DTOutcome = iota
	DTDragon
	DTTiger
	DTLeopard
)

// DrawResult is one completed draw: three digits scoped to a period.
// Everything downstream derives from the digits on demand; nothing is
// cached as a separate field, so the predicates can never drift apart.
type DrawResult struct {
	Period string
	D1     int
	D2     int
	D3     int
}

func (r DrawResult) Sum() int { return r.D1 + r.D2 + r.D3 }

func (r DrawResult) IsBig() bool { return r.Sum() >= 14 }

func (r DrawResult) IsOdd() bool { return r.Sum()%2 == 1 }

// Tail is the last digit of the sum, used by the tail wager family.
func (r DrawResult) Tail() int { return r.Sum() % 10 }

// FourWayCode maps the sum to one of the four compound codes.
func (r DrawResult) FourWayCode() string {
	switch {
	case r.IsBig() && r.IsOdd():
		return CodeBigOdd
	case r.IsBig():
		return CodeBigEven
	case r.IsOdd():
		return CodeSmallOdd
	default:
		return CodeSmallEven
	}
}

// FourWayLabel renders the compound category for bills, e.g. "大单".
func (r DrawResult) FourWayLabel() string {
	big, odd := "小", "双"
	if r.IsBig() {
		big = "大"
	}
	if r.IsOdd() {
		odd = "单"
	}
	return big + odd
}

// Formation classifies the digits: three equal beats two equal beats
// three consecutive beats one consecutive pair beats nothing.
func (r DrawResult) Formation() Formation {
	a, b, c := sort3(r.D1, r.D2, r.D3)
	switch {
	case a == b && b == c:
		return FormationLeopard
	case a == b || b == c:
		return FormationPair
	case b == a+1 && c == b+1:
		return FormationStraight
	case b == a+1 || c == b+1:
		return FormationHalfStraight
	default:
		return FormationMixed
	}
}

// CompareOutcome is the dragon/tiger result in head-to-tail comparison
// mode: first digit versus third. Three equal digits is the leopard
// sub-outcome, equal head and tail otherwise is a draw.
func (r DrawResult) CompareOutcome() DTOutcome {
	switch {
	case r.Formation() == FormationLeopard:
		return DTLeopard
	case r.D1 > r.D3:
		return DTDragon
	case r.D1 < r.D3:
		return DTTiger
	default:
		return DTDraw
	}
}

func (r DrawResult) String() string {
	return fmt.Sprintf("%s: %d+%d+%d=%d", r.Period, r.D1, r.D2, r.D3, r.Sum())
}

func sort3(a, b, c int) (int, int, int) {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return a, b, c
}
