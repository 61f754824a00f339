package publisher

// Publisher defines the interface for publishing offer change events
// to downstream consumers.
type Publisher interface {
	// Publish publishes one change event; kind is "added" or "removed"
	Publish(kind string, message []byte) error

	// TrimStreams caps the change stream at its configured length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
