package presence

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const outboundQueueSize = 32

// WebsocketChannel adapts a gorilla connection to the Channel interface. All
// writes go through one pump goroutine and a buffered queue, so events for a
// single channel are delivered in send order and never interleave.
type WebsocketChannel struct {
	conn      *websocket.Conn
	outbound  chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewWebsocketChannel(conn *websocket.Conn) *WebsocketChannel {
	c := &WebsocketChannel{
		conn:     conn,
		outbound: make(chan Event, outboundQueueSize),
		done:     make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *WebsocketChannel) writePump() {
	for {
		select {
		case event := <-c.outbound:
			if err := c.conn.WriteJSON(event); err != nil {
				// peer is gone, the read loop will disconnect us
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send enqueues event for delivery. It never blocks: a closed channel or a
// full queue returns an error that the registry logs and drops.
func (c *WebsocketChannel) Send(event Event) error {
	select {
	case <-c.done:
		return errors.New("channel is closed")
	default:
	}

	select {
	case c.outbound <- event:
		return nil
	default:
		return errors.New("outbound queue is full")
	}
}

func (c *WebsocketChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}
