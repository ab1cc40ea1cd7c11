package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pc28bot/settler/internal/game"
)

func TestParseFourWayPair(t *testing.T) {
	res, ok := Parse("小单2000 大双20000")
	require.True(t, ok)
	require.Len(t, res.Items, 2)

	assert.Equal(t, game.KindFourWay, res.Items[0].Kind)
	assert.Equal(t, game.CodeSmallOdd, res.Items[0].Code)
	assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(2000)))

	assert.Equal(t, game.KindFourWay, res.Items[1].Kind)
	assert.Equal(t, game.CodeBigEven, res.Items[1].Code)
	assert.True(t, res.Items[1].Amount.Equal(decimal.NewFromInt(20000)))

	assert.True(t, res.Total.Equal(decimal.NewFromInt(22000)))
	assert.Equal(t, "小单2000 大双20000", res.Normalized)
}

func TestParseDeterministic(t *testing.T) {
	const text = "大单100 13/50 豹子20"
	first, ok := Parse(text)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := Parse(text)
		require.True(t, ok)
		assert.Equal(t, first.Items, again.Items)
		assert.Equal(t, first.Normalized, again.Normalized)
		assert.True(t, first.Total.Equal(again.Total))
	}
}

func TestParseLetterCodes(t *testing.T) {
	t.Run("code then amount", func(t *testing.T) {
		res, ok := Parse("XD2000")
		require.True(t, ok)
		require.Len(t, res.Items, 1)
		assert.Equal(t, game.KindFourWay, res.Items[0].Kind)
		assert.Equal(t, game.CodeSmallOdd, res.Items[0].Code)
	})
	t.Run("amount then code", func(t *testing.T) {
		res, ok := Parse("2000xd")
		require.True(t, ok)
		require.Len(t, res.Items, 1)
		assert.Equal(t, game.CodeSmallOdd, res.Items[0].Code)
		assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(2000)))
	})
	t.Run("pinyin", func(t *testing.T) {
		res, ok := Parse("da100 shuang200 long50")
		require.True(t, ok)
		require.Len(t, res.Items, 3)
		assert.Equal(t, game.KindBigSmall, res.Items[0].Kind)
		assert.Equal(t, game.CodeBig, res.Items[0].Code)
		assert.Equal(t, game.KindOddEven, res.Items[1].Kind)
		assert.Equal(t, game.CodeEven, res.Items[1].Code)
		assert.Equal(t, game.KindDragonTiger, res.Items[2].Kind)
		assert.Equal(t, game.CodeDragon, res.Items[2].Code)
	})
}

func TestParseSingleGlyphs(t *testing.T) {
	res, ok := Parse("大100 小200 单300 双400")
	require.True(t, ok)
	require.Len(t, res.Items, 4)
	assert.Equal(t, game.KindBigSmall, res.Items[0].Kind)
	assert.Equal(t, game.KindBigSmall, res.Items[1].Kind)
	assert.Equal(t, game.KindOddEven, res.Items[2].Kind)
	assert.Equal(t, game.KindOddEven, res.Items[3].Kind)
	assert.Equal(t, "大100 小200 单300 双400", res.Normalized)
}

func TestParseDigitGrammars(t *testing.T) {
	t.Run("digit slash amount", func(t *testing.T) {
		res, ok := Parse("13/100")
		require.True(t, ok)
		require.Len(t, res.Items, 1)
		assert.Equal(t, game.KindDigit, res.Items[0].Kind)
		assert.Equal(t, "13", res.Items[0].Code)
		assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "13/100", res.Normalized)
	})
	t.Run("amount dian digit", func(t *testing.T) {
		res, ok := Parse("100点13")
		require.True(t, ok)
		require.Len(t, res.Items, 1)
		assert.Equal(t, game.KindDigit, res.Items[0].Kind)
		assert.Equal(t, "13", res.Items[0].Code)
		assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(100)))
	})
	t.Run("sum out of range rejected", func(t *testing.T) {
		_, ok := Parse("28/100")
		assert.False(t, ok)
	})
}

func TestParseFormationAndSpecialKinds(t *testing.T) {
	res, ok := Parse("对子50 顺子60 豹子70 半顺80 杂90 组合40")
	require.True(t, ok)
	require.Len(t, res.Items, 6)
	kinds := []game.WagerKind{
		game.KindPair, game.KindStraight, game.KindLeopard,
		game.KindHalfStraight, game.KindMixed, game.KindCombination,
	}
	for i, k := range kinds {
		assert.Equal(t, k, res.Items[i].Kind)
	}
}

func TestParseTailFamily(t *testing.T) {
	res, ok := Parse("尾大100 尾小单200 尾5/300")
	require.True(t, ok)
	require.Len(t, res.Items, 3)

	assert.Equal(t, game.KindTailSingle, res.Items[0].Kind)
	assert.Equal(t, game.CodeTailBig, res.Items[0].Code)

	assert.Equal(t, game.KindTailCombination, res.Items[1].Kind)
	assert.Equal(t, game.CodeSmallOdd, res.Items[1].Code)

	assert.Equal(t, game.KindTailDigit, res.Items[2].Kind)
	assert.Equal(t, "5", res.Items[2].Code)

	assert.Equal(t, "尾大100 尾小单200 尾5/300", res.Normalized)
}

func TestParseDragonTigerAndPositional(t *testing.T) {
	res, ok := Parse("龙100 虎200 和300 中400 大边500 小边600 极大700 三军6/80")
	require.True(t, ok)
	require.Len(t, res.Items, 8)
	assert.Equal(t, game.KindDragonTiger, res.Items[0].Kind)
	assert.Equal(t, game.KindDragonTiger, res.Items[1].Kind)
	assert.Equal(t, game.KindSum, res.Items[2].Kind)
	assert.Equal(t, game.KindMiddle, res.Items[3].Kind)
	assert.Equal(t, game.KindEdge, res.Items[4].Kind)
	assert.Equal(t, game.KindEdge, res.Items[5].Kind)
	assert.Equal(t, game.KindExtreme, res.Items[6].Kind)
	assert.Equal(t, game.KindThreeArmy, res.Items[7].Kind)
	assert.Equal(t, "6", res.Items[7].Code)
}

func TestParseGluedTokens(t *testing.T) {
	res, ok := Parse("大单2000小双500")
	require.True(t, ok)
	require.Len(t, res.Items, 2)
	assert.Equal(t, game.CodeBigOdd, res.Items[0].Code)
	assert.Equal(t, game.CodeSmallEven, res.Items[1].Code)
}

func TestParseSeparators(t *testing.T) {
	res, ok := Parse("大单100，小双200、豹子50")
	require.True(t, ok)
	assert.Len(t, res.Items, 3)
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"too short", "大"},
		{"template text", "[玩家]下注[金额]"},
		{"no wager token", "今天天气不错"},
		{"label without amount", "大单"},
		{"zero amount", "大单0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Parse(tc.text)
			assert.False(t, ok)
		})
	}
}

func TestParseSkipsMalformedToken(t *testing.T) {
	// The oversized amount overflows nothing (decimal), so use a token
	// whose amount is missing: it drops, the sibling still parses.
	res, ok := Parse("大单 小双200")
	require.True(t, ok)
	require.Len(t, res.Items, 1)
	assert.Equal(t, game.CodeSmallEven, res.Items[0].Code)
}

func TestTotalMatchesItemSum(t *testing.T) {
	res, ok := Parse("大100 小200 13/50 尾大30")
	require.True(t, ok)
	sum := decimal.Zero
	for _, it := range res.Items {
		sum = sum.Add(it.Amount)
	}
	assert.True(t, res.Total.Equal(sum))
}
