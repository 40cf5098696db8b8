package events

import (
	"context"
	"sync"
	"time"
)

const (
	TopicUser    = "user_events"
	TopicProduct = "product_events"
	TopicCart    = "cart_events"
)

const (
	UserLoggedIn    = "user_logged_in"
	UserLoggedOut   = "user_logged_out"
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	CartItemAdded   = "cart_item_added"
	CartItemRemoved = "cart_item_removed"
	CartCheckedOut  = "cart_checked_out"
)

// Event is the JSON payload of every published message.
type Event struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id,omitempty"`
	ProductID uint      `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Items     int       `json:"items,omitempty"`
	Total     float64   `json:"total,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                       { return nil }

// Message is one published event, kept by Recorder.
type Message struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Topic(topic string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.Messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}
