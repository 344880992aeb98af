package presence

// Event is the canonical payload pushed over a live channel. One tagged shape
// for every push; unused fields are omitted on the wire.
type Event struct {
	Event          string      `json:"event"`
	ConversationId string      `json:"conversation_id,omitempty"`
	Message        interface{} `json:"message,omitempty"`
	Notification   interface{} `json:"notification,omitempty"`
	Error          string      `json:"error,omitempty"`
}

const (
	EventNewMessage     = "new_message"
	EventMessageEdited  = "message_edited"
	EventMessageDeleted = "message_deleted"
	EventNotification   = "notification"
	EventPong           = "pong"
	EventError          = "error"
)

// Channel is one live duplex connection to a client. A user may hold several
// at once (multiple devices or tabs).
type Channel interface {
	Send(event Event) error
	Close() error
}
