package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/valenstagram/valenstagram-backend/presence"
	Logger "github.com/valenstagram/valenstagram-backend/utils/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// cross-origin clients are expected, same policy as the CORS layer
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inboundCommand is a typed frame sent by the client over the live channel.
type inboundCommand struct {
	Command string `json:"command"`
}

// Websocket upgrades the request into a live channel registered under the
// authenticated user. The read loop only parses typed commands (ping) and
// keeps the connection accounted for; all pushes flow through the registry.
func Websocket(registry *presence.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			Logger.LogV2.Error(fmt.Sprintf("websocket upgrade failed for user %s: %v", userId, err))
			return
		}

		channel := presence.NewWebsocketChannel(conn)
		registry.Connect(userId, channel)
		defer func() {
			registry.Disconnect(userId, channel)
			channel.Close()
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var command inboundCommand
			if err := json.Unmarshal(raw, &command); err != nil || command.Command == "" {
				channel.Send(presence.Event{Event: presence.EventError, Error: "malformed command"})
				continue
			}

			switch command.Command {
			case "ping":
				channel.Send(presence.Event{Event: presence.EventPong})
			default:
				channel.Send(presence.Event{
					Event: presence.EventError,
					Error: fmt.Sprintf("unknown command: %s", command.Command),
				})
			}
		}
	}
}
