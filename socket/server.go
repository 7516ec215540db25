package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server used for live match chat.
// Clients join a room named after the match id; messages are relayed to the
// room, persistence goes through the chat REST endpoint.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, matchID string) {
		if matchID == "" {
			log.Println("Invalid matchId in join request")
			return
		}
		log.Printf("Connection %s joined match %s\n", c.ID(), matchID)
		c.Join(matchID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, message map[string]interface{}) {
		matchID, _ := message["matchId"].(string)
		if matchID == "" {
			return
		}
		server.BroadcastToRoom("/", matchID, "newMessage", message)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}
