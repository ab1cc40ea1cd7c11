package game

// WagerKind identifies one settlement category. The set is closed: the
// settlement engine switches over every value, so adding a kind means
// touching the dispatch, the parser tables and the odds config together.
type WagerKind int

const (
	KindUnknown WagerKind = iota
	KindBigSmall
	KindOddEven
	KindFourWay
	KindPair
	KindCombination
	KindStraight
	KindHalfStraight
	KindLeopard
	KindMixed
	KindDigit
	KindExtreme
	KindDragonTiger
	KindThreeArmy
	KindEdge
	KindMiddle
	KindSum
	KindTailSingle
	KindTailCombination
	KindTailDigit
)

var kindNames = map[WagerKind]string{
	KindUnknown:         "unknown",
	KindBigSmall:        "bigsmall",
	KindOddEven:         "oddeven",
	KindFourWay:         "fourway",
	KindPair:            "pair",
	KindCombination:     "combination",
	KindStraight:        "straight",
	KindHalfStraight:    "halfstraight",
	KindLeopard:         "leopard",
	KindMixed:           "mixed",
	KindDigit:           "digit",
	KindExtreme:         "extreme",
	KindDragonTiger:     "dragontiger",
	KindThreeArmy:       "threearmy",
	KindEdge:            "edge",
	KindMiddle:          "middle",
	KindSum:             "sum",
	KindTailSingle:      "tailsingle",
	KindTailCombination: "tailcombination",
	KindTailDigit:       "taildigit",
}

func (k WagerKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Codes carried by WagerItem per kind. Digit, ThreeArmy and TailDigit
// carry the target number itself as the code.
const (
	CodeBig   = "D"  // 大
	CodeSmall = "X"  // 小
	CodeOdd   = "DAN"
	CodeEven  = "SHUANG"

	CodeBigOdd    = "DD" // 大单
	CodeBigEven   = "DS" // 大双
	CodeSmallOdd  = "XD" // 小单
	CodeSmallEven = "XS" // 小双

	CodeExtremeBig   = "JD" // 极大
	CodeExtremeSmall = "JX" // 极小

	CodeDragon = "L"  // 龙
	CodeTiger  = "H"  // 虎
	CodeDraw   = "HE" // 和

	CodeBigEdge   = "DB" // 大边
	CodeSmallEdge = "XB" // 小边
	CodeAnyEdge   = "B"  // 边

	CodeMiddle = "Z" // 中

	CodeTailBig   = "WD"  // 尾大
	CodeTailSmall = "WX"  // 尾小
	CodeTailOdd   = "WDD" // 尾单
	CodeTailEven  = "WDS" // 尾双
)
