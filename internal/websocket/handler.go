package websocket

import "github.com/gofiber/websocket/v2"

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, reviewerId string) {
	client := &Client{Hub: hub, Conn: c, ReviewerId: reviewerId, Send: make(chan []byte, sendBuffer)}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
