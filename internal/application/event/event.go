// Package event defines the domain events the API emits and the port they
// are published through.
package event

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Routing keys.
const (
	BookCreated   = "book.created"
	BookUpdated   = "book.updated"
	BookDeleted   = "book.deleted"
	ReviewCreated = "review.created"
)

// Publisher sends an event payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Noop drops every event. Used when the broker is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, string, interface{}) error { return nil }

// BookEvent is the payload of the book.* events.
type BookEvent struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title,omitempty"`
	OwnerID    string    `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewEvent is the payload of review.created.
type ReviewEvent struct {
	ReviewID      string    `json:"review_id"`
	BookID        string    `json:"book_id"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Emit publishes and logs failures. Events are fire-and-forget: a broker
// outage never fails the request that produced the event.
func Emit(ctx context.Context, p Publisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Warn("failed to publish event")
	}
}
