package presence

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestChannel spins up a websocket server whose server-side connection is
// wrapped in a WebsocketChannel, and returns the client side for assertions.
func dialTestChannel(t *testing.T) (*WebsocketChannel, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	channelCh := make(chan *WebsocketChannel, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		channelCh <- NewWebsocketChannel(conn)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	channel := <-channelCh
	t.Cleanup(func() { channel.Close() })
	return channel, client
}

func TestWebsocketChannelDelivery(t *testing.T) {
	channel, client := dialTestChannel(t)

	events := []Event{
		{Event: EventNewMessage, ConversationId: "c1"},
		{Event: EventNewMessage, ConversationId: "c2"},
		{Event: EventPong},
	}
	for _, event := range events {
		require.NoError(t, channel.Send(event))
	}

	// delivered in send order
	for _, want := range events {
		var got Event
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		require.NoError(t, client.ReadJSON(&got))
		assert.Equal(t, want.Event, got.Event)
		assert.Equal(t, want.ConversationId, got.ConversationId)
	}
}

func TestWebsocketChannelClose(t *testing.T) {
	channel, _ := dialTestChannel(t)

	require.NoError(t, channel.Close())
	// closing twice is safe
	require.NoError(t, channel.Close())

	err := channel.Send(Event{Event: EventPong})
	assert.Error(t, err)
}
