// Package events carries the NATS plumbing between the settlement core
// and the out-of-scope transport layer: chat messages and draw results
// flow in, bills and settlement notices flow out.
package events

import (
	"github.com/shopspring/decimal"
)

// ChatMessage is one message delivered by the chat transport. Only
// text messages from group channels are candidate wagers. Period is
// the draw cycle the transport had open when the message arrived.
type ChatMessage struct {
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	ChannelID  string `json:"channel_id"`
	Content    string `json:"content"`
	IsGroup    bool   `json:"is_group"`
	Type       string `json:"type"` // text | image | ...
	Period     string `json:"period,omitempty"`
}

// DrawResult is one completed draw from the external result source.
type DrawResult struct {
	Period string `json:"period"`
	D1     int    `json:"d1"`
	D2     int    `json:"d2"`
	D3     int    `json:"d3"`
}

// BillEvent is the rendered settlement text for chat delivery.
type BillEvent struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// SettlementCompleteEvent announces a finished period.
type SettlementCompleteEvent struct {
	Period      string          `json:"period"`
	PlayerCount int             `json:"player_count"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

const (
	subjectChat    = "chat"
	subjectDraw    = "draw"
	subjectBill    = "bill"
	subjectSettled = "settled"
)
