package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// Emitter publishes produced events as JSON on prefixed subjects.
type Emitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewEmitter(natsURL, subjectPrefix string) (*Emitter, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Emitter{conn: conn, subjectPrefix: subjectPrefix}, nil
}

func (e *Emitter) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.conn.Publish(e.subjectPrefix+"."+subject, data)
}

func (e *Emitter) EmitBill(channelID, text string) error {
	return e.publish(subjectBill, BillEvent{ChannelID: channelID, Text: text})
}

func (e *Emitter) EmitSettlementComplete(period string, playerCount int, totalProfit decimal.Decimal) error {
	return e.publish(subjectSettled, SettlementCompleteEvent{
		Period:      period,
		PlayerCount: playerCount,
		TotalProfit: totalProfit,
	})
}

func (e *Emitter) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}
