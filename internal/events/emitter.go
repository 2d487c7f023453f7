// Package events publishes cart mutation events for downstream
// consumers (notification fan-out, abandoned-cart reminders). Emission
// is fire-and-forget: a dead broker never blocks or fails a mutation.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Type string

const (
	TypeCartItemAdded    Type = "cart.item_added"
	TypeCartItemUpdated  Type = "cart.item_updated"
	TypeCartItemRemoved  Type = "cart.item_removed"
	TypeCartCleared      Type = "cart.cleared"
	TypePreorderSet      Type = "preorder.set"
	TypePreorderCleared  Type = "preorder.cleared"
	TypeWishlistAdded    Type = "wishlist.added"
	TypeWishlistRemoved  Type = "wishlist.removed"
	TypeConflictResolved Type = "conflict.resolved"
)

type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Type      Type      `json:"type"`
	ProductID string    `json:"product_id,omitempty"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	At        time.Time `json:"at"`
}

const emitTimeout = 5 * time.Second

type Emitter struct {
	writer *kafka.Writer
}

func NewEmitter(brokers []string, topic string) *Emitter {
	return &Emitter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// Emit publishes the event in the background. Safe on a nil emitter so
// the engine runs without a broker configured.
func (e *Emitter) Emit(event Event) {
	if e == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.At.IsZero() {
		event.At = time.Now()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()

		value, err := json.Marshal(event)
		if err != nil {
			log.Printf("marshal event failed: %v", err)
			return
		}

		msg := kafka.Message{
			Key:   []byte(event.SessionID),
			Value: value,
		}
		if err := e.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("failed to publish %s event: %v", event.Type, err)
		}
	}()
}

func (e *Emitter) Close() {
	if e == nil {
		return
	}
	if err := e.writer.Close(); err != nil {
		log.Printf("error closing event writer: %v", err)
	}
}
