// Package parser turns free-form chat text into structured wager items.
// Parsing is a pure function of the input text: no configuration, no
// clock, no shared state. The same string always yields the same items,
// which is what lets settlement re-parse stored raw text later and get
// the record the ingester accepted.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
)

// Result is one successfully parsed message.
type Result struct {
	Items      []game.WagerItem
	Total      decimal.Decimal
	Normalized string
}

var separators = strings.NewReplacer(
	"，", " ", "、", " ", "。", " ", "；", " ", "｜", " ",
	",", " ", ";", " ", "|", " ", "\n", " ", "\r", " ", "\t", " ",
	"　", " ",
)

// Parse extracts wager items from a chat message. The second return is
// false when the text is not a wager at all: too short, template text,
// or no recognizable token. A token whose amount fails to parse is
// skipped on its own; the rest of the message still counts.
func Parse(text string) (*Result, bool) {
	cleaned := strings.TrimSpace(separators.Replace(text))
	if len([]rune(cleaned)) < 2 {
		return nil, false
	}
	// Bracketed tokens mean template or placeholder text, never a wager.
	if strings.ContainsAny(cleaned, "[{") && strings.ContainsAny(cleaned, "]}") {
		return nil, false
	}

	var items []game.WagerItem
	for _, token := range strings.Fields(cleaned) {
		items = append(items, scanToken(token)...)
	}
	if len(items) == 0 {
		return nil, false
	}

	total := decimal.Zero
	normalized := make([]string, 0, len(items))
	for _, it := range items {
		total = total.Add(it.Amount)
		normalized = append(normalized, it.Normalized())
	}
	return &Result{
		Items:      items,
		Total:      total,
		Normalized: strings.Join(normalized, " "),
	}, true
}

// scanToken repeatedly matches the grammar table against the front of
// one whitespace-delimited token, so glued-together wagers such as
// "大单2000小双500" still split. An unrecognized leading rune is
// dropped and scanning continues.
func scanToken(token string) []game.WagerItem {
	var items []game.WagerItem
	rest := token
	for rest != "" {
		matched := false
		for _, g := range grammar {
			m := g.re.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			if it, ok := g.build(m); ok {
				items = append(items, it)
			}
			rest = rest[len(m[0]):]
			matched = true
			break
		}
		if !matched {
			r, size := utf8.DecodeRuneInString(rest)
			if r >= '0' && r <= '9' {
				// No rule wanted this number, so the whole digit run
				// is junk; consuming it digit by digit would let a
				// suffix like the "8/100" inside "28/100" re-match.
				for size < len(rest) && rest[size] >= '0' && rest[size] <= '9' {
					size++
				}
			}
			rest = rest[size:]
		}
	}
	return items
}

type rule struct {
	re    *regexp.Regexp
	build func(m []string) (game.WagerItem, bool)
}

// item builds a WagerItem from a kind, code and amount string; a
// malformed or non-positive amount drops the token.
func item(kind game.WagerKind, code, amount string) (game.WagerItem, bool) {
	amt, err := decimal.NewFromString(amount)
	if err != nil || !amt.IsPositive() {
		return game.WagerItem{}, false
	}
	return game.WagerItem{Kind: kind, Code: code, Amount: amt}, true
}

var chineseCombos = map[string]struct {
	kind game.WagerKind
	code string
}{
	"尾大单": {game.KindTailCombination, game.CodeBigOdd},
	"尾大双": {game.KindTailCombination, game.CodeBigEven},
	"尾小单": {game.KindTailCombination, game.CodeSmallOdd},
	"尾小双": {game.KindTailCombination, game.CodeSmallEven},
	"尾大":  {game.KindTailSingle, game.CodeTailBig},
	"尾小":  {game.KindTailSingle, game.CodeTailSmall},
	"尾单":  {game.KindTailSingle, game.CodeTailOdd},
	"尾双":  {game.KindTailSingle, game.CodeTailEven},
	"大单":  {game.KindFourWay, game.CodeBigOdd},
	"大双":  {game.KindFourWay, game.CodeBigEven},
	"小单":  {game.KindFourWay, game.CodeSmallOdd},
	"小双":  {game.KindFourWay, game.CodeSmallEven},
	"极大":  {game.KindExtreme, game.CodeExtremeBig},
	"极小":  {game.KindExtreme, game.CodeExtremeSmall},
	"大边":  {game.KindEdge, game.CodeBigEdge},
	"小边":  {game.KindEdge, game.CodeSmallEdge},
	"对子":  {game.KindPair, ""},
	"组合":  {game.KindCombination, ""},
	"顺子":  {game.KindStraight, ""},
	"半顺":  {game.KindHalfStraight, ""},
	"豹子":  {game.KindLeopard, ""},
	"边":   {game.KindEdge, game.CodeAnyEdge},
	"杂":   {game.KindMixed, ""},
	"龙":   {game.KindDragonTiger, game.CodeDragon},
	"虎":   {game.KindDragonTiger, game.CodeTiger},
	"和":   {game.KindSum, game.CodeDraw},
	"中":   {game.KindMiddle, game.CodeMiddle},
	"大":   {game.KindBigSmall, game.CodeBig},
	"小":   {game.KindBigSmall, game.CodeSmall},
	"单":   {game.KindOddEven, game.CodeOdd},
	"双":   {game.KindOddEven, game.CodeEven},
}

// letterCodes maps latin short codes, longest first, used both as
// code-amount and amount-code. Pinyin aliases map onto the same kinds.
var letterCodes = map[string]struct {
	kind game.WagerKind
	code string
}{
	"SHUANG": {game.KindOddEven, game.CodeEven},
	"XIAO":   {game.KindBigSmall, game.CodeSmall},
	"LONG":   {game.KindDragonTiger, game.CodeDragon},
	"WDD":    {game.KindTailSingle, game.CodeTailOdd},
	"WDS":    {game.KindTailSingle, game.CodeTailEven},
	"DAN":    {game.KindOddEven, game.CodeOdd},
	"DA":     {game.KindBigSmall, game.CodeBig},
	"HU":     {game.KindDragonTiger, game.CodeTiger},
	"HE":     {game.KindSum, game.CodeDraw},
	"DD":     {game.KindFourWay, game.CodeBigOdd},
	"DS":     {game.KindFourWay, game.CodeBigEven},
	"XD":     {game.KindFourWay, game.CodeSmallOdd},
	"XS":     {game.KindFourWay, game.CodeSmallEven},
	"DZ":     {game.KindPair, ""},
	"ZH":     {game.KindCombination, ""},
	"SZ":     {game.KindStraight, ""},
	"BS":     {game.KindHalfStraight, ""},
	"BZ":     {game.KindLeopard, ""},
	"ZA":     {game.KindMixed, ""},
	"JD":     {game.KindExtreme, game.CodeExtremeBig},
	"JX":     {game.KindExtreme, game.CodeExtremeSmall},
	"DB":     {game.KindEdge, game.CodeBigEdge},
	"XB":     {game.KindEdge, game.CodeSmallEdge},
	"WD":     {game.KindTailSingle, game.CodeTailBig},
	"WX":     {game.KindTailSingle, game.CodeTailSmall},
}

var grammar = buildGrammar()

func buildGrammar() []rule {
	comboAlt := joinKeysLongestFirst(chineseCombos)
	letterAlt := joinKeysLongestFirst(letterCodes)

	return []rule{
		// Chinese label immediately followed by the amount: "小单2000".
		{
			re: regexp.MustCompile(`^(` + comboAlt + `)(\d+)`),
			build: func(m []string) (game.WagerItem, bool) {
				c := chineseCombos[m[1]]
				return item(c.kind, c.code, m[2])
			},
		},
		// Tail digit: "尾5/100" or "尾5点100".
		{
			re: regexp.MustCompile(`^尾([0-9])[/点](\d+)`),
			build: func(m []string) (game.WagerItem, bool) {
				return item(game.KindTailDigit, m[1], m[2])
			},
		},
		// Three-army digit: "三军5/100" or "三军5点100".
		{
			re: regexp.MustCompile(`^三军([0-9])[/点](\d+)`),
			build: func(m []string) (game.WagerItem, bool) {
				return item(game.KindThreeArmy, m[1], m[2])
			},
		},
		// Exact-sum wager, digit first: "13/100".
		{
			re: regexp.MustCompile(`^(2[0-7]|1[0-9]|[0-9])/(\d+)`),
			build: func(m []string) (game.WagerItem, bool) {
				return item(game.KindDigit, m[1], m[2])
			},
		},
		// Exact-sum wager, amount first: "100点13".
		{
			re: regexp.MustCompile(`^(\d+)点(2[0-7]|1[0-9]|[0-9])\b`),
			build: func(m []string) (game.WagerItem, bool) {
				return item(game.KindDigit, m[2], m[1])
			},
		},
		// Latin code then amount: "XD2000".
		{
			re: regexp.MustCompile(`(?i)^(` + letterAlt + `)(\d+)`),
			build: func(m []string) (game.WagerItem, bool) {
				c := letterCodes[strings.ToUpper(m[1])]
				return item(c.kind, c.code, m[2])
			},
		},
		// Amount then latin code: "2000XD".
		{
			re: regexp.MustCompile(`(?i)^(\d+)(` + letterAlt + `)\b`),
			build: func(m []string) (game.WagerItem, bool) {
				c := letterCodes[strings.ToUpper(m[2])]
				return item(c.kind, c.code, m[1])
			},
		},
	}
}

func joinKeysLongestFirst[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Longest alternative first so "大单" wins over "大".
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(escaped, "|")
}
