// Package queue defines the computation events exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

// DefaultQueueName is the durable queue computation events are routed to.
const DefaultQueueName = "computation.completed"

// ComputationEvent is published after every dispatched /bfhl computation. It
// carries enough for downstream consumers to log or aggregate usage without
// seeing the request payload.
type ComputationEvent struct {
	ID          string `json:"id"`
	Operation   string `json:"operation"`
	Outcome     string `json:"outcome"`
	InputSize   int    `json:"input_size"`
	DurationMs  int64  `json:"duration_ms"`
	CompletedAt string `json:"completed_at"`
}
