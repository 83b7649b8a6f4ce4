package realtime

// EventNotification is the server's user-facing notification event.
const EventNotification = "notification"

// Notification is the payload of EventNotification.
type Notification struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// OnNotification registers a typed handler for notification events.
func (c *Client) OnNotification(handler func(Notification)) (unsubscribe func()) {
	return OnJSON(c, EventNotification, handler)
}
