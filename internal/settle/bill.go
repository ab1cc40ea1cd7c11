package settle

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/ledger"
)

// renderBill builds the human-readable settlement text delivered back
// to the chat channel and stored inside the summary: a header with the
// draw, then one line per player with signed profit and the balance
// movement.
func renderBill(res game.DrawResult, players []ledger.PlayerSettlement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "期号%s %d+%d+%d=%d [%s %s]\n",
		res.Period, res.D1, res.D2, res.D3, res.Sum(),
		res.FourWayLabel(), res.Formation())
	for _, p := range players {
		name := p.PlayerName
		if name == "" {
			name = p.PlayerID
		}
		fmt.Fprintf(&b, "%s %s 余额%s->%s\n",
			name, signed(p.NetProfit), p.BalanceBefore, p.BalanceAfter)
	}
	return strings.TrimRight(b.String(), "\n")
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.String()
	}
	return "+" + d.String()
}
