package repository

import "context"

// PosterWarmTask asks the worker to fetch a poster from the catalog and
// store it in the poster store.
type PosterWarmTask struct {
	Path string `json:"path"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishPosterWarmTask sends a poster warm task to the queue.
	// Used by the API server when it serves a poster the store misses.
	PublishPosterWarmTask(ctx context.Context, task PosterWarmTask) error

	// ConsumePosterWarmTasks starts consuming warm tasks from the queue.
	// The handler function is called for each received task.
	// Used by the worker service.
	ConsumePosterWarmTasks(ctx context.Context, handler func(task PosterWarmTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
