package core

// Client is one live realtime connection as seen by the core layer. The ID is
// assigned by the transport on connect and never reused after close.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with an initialized events channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}

// send queues an event for the client's write loop.
func (c *Client) send(event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
