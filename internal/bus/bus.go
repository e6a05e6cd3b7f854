package bus

import (
	"context"
	"log"
	"sync"
	"time"
)

// Kind discriminates inbound events.
type Kind string

const (
	KindText     Kind = "text"     // plain text message
	KindCallback Kind = "callback" // inline button press
)

type InboundMessage struct {
	Channel   string
	OwnerID   int64
	ChatID    string
	Kind      Kind
	Content   string // text payload for KindText
	Callback  string // opaque tag for KindCallback
	Timestamp time.Time
}

// Button is one selectable inline-keyboard choice.
type Button struct {
	Label string
	Data  string
}

type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
	Buttons [][]Button // inline keyboard rows, nil for none
	Menu    [][]string // reply-menu rows, nil to leave the menu as is
}

// MessageBus decouples channel adapters from the dialog core. Adapters
// push InboundMessages; the gateway pushes OutboundMessages which are
// dispatched to the subscriber registered for the target channel.
type MessageBus struct {
	Inbound  chan InboundMessage
	Outbound chan OutboundMessage

	mu   sync.RWMutex
	subs map[string]func(OutboundMessage)
}

func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		Inbound:  make(chan InboundMessage, bufSize),
		Outbound: make(chan OutboundMessage, bufSize),
		subs:     make(map[string]func(OutboundMessage)),
	}
}

func (b *MessageBus) SubscribeOutbound(channel string, fn func(OutboundMessage)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[channel] = fn
}

func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-b.Outbound:
			b.mu.RLock()
			fn := b.subs[msg.Channel]
			b.mu.RUnlock()
			if fn == nil {
				log.Printf("[bus] no subscriber for channel %q, dropping message", msg.Channel)
				continue
			}
			fn(msg)
		case <-ctx.Done():
			return
		}
	}
}
