// Package events announces completed queries to other services.
package events

import (
	"context"
	"time"
)

// TopicQueryCompleted is published once per successful query.
const TopicQueryCompleted = "competitors.query.completed"

// Publisher sends JSON encoded events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// QueryCompleted summarizes one query run.
type QueryCompleted struct {
	ID          string    `json:"id"`
	Mode        string    `json:"mode"`
	Codes       [2]string `json:"codes"`
	Competitors int       `json:"competitors"`
	Highlights  []string  `json:"highlights,omitempty"`
	Export      string    `json:"export,omitempty"`
	At          time.Time `json:"at"`
}
