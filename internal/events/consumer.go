package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Consumer subscribes to the two consumed streams. Handlers run on the
// NATS delivery goroutines; undecodable payloads are logged and
// dropped, never fatal.
type Consumer struct {
	conn          *nats.Conn
	subjectPrefix string
	subs          []*nats.Subscription
}

func NewConsumer(natsURL, subjectPrefix string) (*Consumer, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Consumer{conn: conn, subjectPrefix: subjectPrefix}, nil
}

func (c *Consumer) Subscribe(onChat func(ChatMessage), onDraw func(DrawResult)) error {
	chatSub, err := c.conn.Subscribe(c.subjectPrefix+"."+subjectChat, func(msg *nats.Msg) {
		var chat ChatMessage
		if err := json.Unmarshal(msg.Data, &chat); err != nil {
			slog.Warn("Dropping undecodable chat event", "error", err)
			return
		}
		onChat(chat)
	})
	if err != nil {
		return fmt.Errorf("subscribe chat: %w", err)
	}
	c.subs = append(c.subs, chatSub)

	drawSub, err := c.conn.Subscribe(c.subjectPrefix+"."+subjectDraw, func(msg *nats.Msg) {
		var draw DrawResult
		if err := json.Unmarshal(msg.Data, &draw); err != nil {
			slog.Warn("Dropping undecodable draw event", "error", err)
			return
		}
		onDraw(draw)
	})
	if err != nil {
		return fmt.Errorf("subscribe draw: %w", err)
	}
	c.subs = append(c.subs, drawSub)
	return nil
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
